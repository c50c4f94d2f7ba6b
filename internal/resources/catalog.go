package resources

import (
	"net/http"
	"net/url"

	"github.com/atcnagpur/contentadmin/internal/records"
	"github.com/atcnagpur/contentadmin/internal/synchronizer"
	"github.com/atcnagpur/contentadmin/internal/transport"
)

const (
	heroAPI     = "hero_api.php"
	scrollerAPI = "scroller.php"
	photosAPI   = "get_photos.php"
	featureAPI  = "get_feature.php"
	sliderAPI   = "slider.php"

	appearance = "appearance"
)

// Defaults describes the lists managed on the public site.
func Defaults() []Descriptor {
	return []Descriptor{
		heroSection("hero-important-links", "Important links", "importantLinks"),
		heroSection("hero-notifications", "Notifications", "notifications"),
		heroSection("hero-employee-corner", "Employee corner", "employeeCorner"),
		scrollerTexts(),
		scrollerImages(),
		photos(),
		features(),
		gallery(),
		community(),
	}
}

func heroSection(name, title, section string) Descriptor {
	q := func(action string) url.Values {
		return url.Values{"action": {action}, "section": {section}}
	}

	return Descriptor{
		Sync: synchronizer.Config{
			Name:  name,
			Title: title,
			Schema: records.Schema{
				Fields: []records.Field{
					{Name: "title", Aliases: []string{"title", "title_eng"}, Adaptive: true},
					{Name: "title_mar", Aliases: []string{"title_mar"}},
					{Name: "link", Aliases: []string{"link"}},
				},
				Visible: []string{"Status", "status"},
			},
			Required:  []string{"title", "link"},
			ListKey:   "data." + section,
			Reconcile: synchronizer.ReconcileReload,
			Wire:      synchronizer.Wire{Visible: "status"},
		},
		Endpoints: map[transport.Action]transport.Endpoint{
			transport.ActionList: {
				Method: http.MethodGet,
				Path:   heroAPI,
				Query:  url.Values{"action": {"fetch"}},
			},
			transport.ActionCreate: {
				Method:   http.MethodPost,
				Path:     heroAPI,
				Query:    q("add"),
				Encoding: transport.EncodingJSON,
			},
			transport.ActionUpdate: {
				Method:   http.MethodPut,
				Path:     heroAPI,
				Query:    q("update"),
				IDParam:  "id",
				IDField:  "id",
				Encoding: transport.EncodingJSON,
			},
			transport.ActionDelete: {
				Method:  http.MethodDelete,
				Path:    heroAPI,
				Query:   q("delete"),
				IDParam: "id",
			},
		},
	}
}

func scrollerTexts() Descriptor {
	return Descriptor{
		Sync: synchronizer.Config{
			Name:  "scroller-texts",
			Title: "Scrolling texts",
			Schema: records.Schema{
				Fields: []records.Field{
					{Name: "text", Aliases: []string{"text"}},
					{Name: "text_mar", Aliases: []string{"text_mar"}},
				},
				Visible: []string{appearance},
			},
			Required:   []string{"text"},
			ListKey:    "texts",
			CreatedKey: "newText",
			UpdatedKey: "updatedText",
			Reconcile:  synchronizer.ReconcileEcho,
			Wire:       synchronizer.Wire{Visible: appearance},
		},
		Endpoints: map[transport.Action]transport.Endpoint{
			transport.ActionList:   scrollerEndpoint(http.MethodGet, "fetch", false, transport.EncodingNone),
			transport.ActionCreate: scrollerEndpoint(http.MethodPost, "add_text", false, transport.EncodingJSON),
			transport.ActionUpdate: scrollerEndpoint(http.MethodPost, "edit_text", true, transport.EncodingJSON),
			transport.ActionDelete: scrollerEndpoint(http.MethodGet, "delete_text", true, transport.EncodingNone),
		},
	}
}

func scrollerImages() Descriptor {
	return Descriptor{
		Sync: synchronizer.Config{
			Name:  "scroller-images",
			Title: "Scroller images",
			Schema: records.Schema{
				Fields: []records.Field{
					{Name: "title", Aliases: []string{"title"}},
					{Name: "description", Aliases: []string{"description"}},
				},
				Media:   []string{"image_url", "image"},
				Visible: []string{appearance},
			},
			Required:   []string{synchronizer.MediaField},
			ListKey:    "images",
			CreatedKey: "newImage",
			UpdatedKey: "updatedImage",
			Reconcile:  synchronizer.ReconcileEcho,
			Wire: synchronizer.Wire{
				Visible:       appearance,
				File:          "file",
				ExistingMedia: "existing_image",
			},
		},
		Endpoints: map[transport.Action]transport.Endpoint{
			transport.ActionList:   scrollerEndpoint(http.MethodGet, "fetch", false, transport.EncodingNone),
			transport.ActionCreate: scrollerEndpoint(http.MethodPost, "add_image", false, transport.EncodingMultipart),
			transport.ActionUpdate: scrollerEndpoint(http.MethodPost, "edit_image", true, transport.EncodingMultipart),
			transport.ActionDelete: scrollerEndpoint(http.MethodGet, "delete_image", true, transport.EncodingNone),
		},
	}
}

func scrollerEndpoint(method, action string, withID bool, enc transport.Encoding) transport.Endpoint {
	ep := transport.Endpoint{
		Method:   method,
		Path:     scrollerAPI,
		Query:    url.Values{"action": {action}},
		Encoding: enc,
	}
	if withID {
		ep.IDParam = "id"
	}
	return ep
}

// photos are the dignitary portraits; the image is referenced by URL.
func photos() Descriptor {
	return Descriptor{
		Sync: synchronizer.Config{
			Name:  "photos",
			Title: "Dignitary photos",
			Schema: records.Schema{
				Fields: []records.Field{
					{Name: "name", Aliases: []string{"name", "title"}},
					{Name: "position", Aliases: []string{"position", "category"}},
				},
				Media:   []string{"image_url", "image"},
				Visible: []string{appearance},
			},
			Required:   []string{synchronizer.MediaField, "name", "position"},
			ListKey:    "photos",
			CreatedKey: "newPhoto",
			UpdatedKey: "updatedPhoto",
			Reconcile:  synchronizer.ReconcileEcho,
			Wire:       synchronizer.Wire{Visible: appearance, MediaURL: "image_url"},
		},
		Endpoints: map[transport.Action]transport.Endpoint{
			transport.ActionList: {
				Method: http.MethodGet,
				Path:   photosAPI,
				Query:  url.Values{"all": {"1"}},
			},
			transport.ActionCreate: jsonAction(photosAPI, "create", false),
			transport.ActionUpdate: jsonAction(photosAPI, "update", true),
			transport.ActionDelete: jsonAction(photosAPI, "delete", true),
		},
	}
}

func features() Descriptor {
	return Descriptor{
		Sync: synchronizer.Config{
			Name:  "features",
			Title: "Feature cards",
			Schema: records.Schema{
				Fields: []records.Field{
					{Name: "name", Aliases: []string{"name", "title"}},
					{Name: "position", Aliases: []string{"position", "category"}},
				},
				Media:   []string{"image", "image_url"},
				Visible: []string{appearance},
			},
			Required:  []string{"name"},
			ListKey:   "photos",
			Reconcile: synchronizer.ReconcileReload,
			Wire: synchronizer.Wire{
				Visible:       appearance,
				File:          "image",
				ExistingMedia: "existing_image",
			},
		},
		Endpoints: map[transport.Action]transport.Endpoint{
			transport.ActionList:   {Method: http.MethodGet, Path: featureAPI},
			transport.ActionCreate: {Method: http.MethodPost, Path: featureAPI, Encoding: transport.EncodingMultipart},
			transport.ActionUpdate: methodTunnel(featureAPI, http.MethodPut),
			transport.ActionDelete: methodTunnel(featureAPI, http.MethodDelete),
		},
	}
}

func gallery() Descriptor {
	return Descriptor{
		Host: HostGallery,
		Sync: synchronizer.Config{
			Name:  "gallery",
			Title: "Photo gallery",
			Schema: records.Schema{
				Fields: []records.Field{
					{Name: "name", Aliases: []string{"name", "title"}},
					{Name: "position", Aliases: []string{"position", "category"}},
				},
				Media:   []string{"image_url", "image"},
				Visible: []string{appearance},
			},
			Required:  []string{synchronizer.MediaField, "name", "position"},
			ListKey:   "photos",
			Reconcile: synchronizer.ReconcileReload,
			Wire:      synchronizer.Wire{Visible: appearance, MediaURL: "image_url"},
		},
		Endpoints: map[transport.Action]transport.Endpoint{
			transport.ActionList:   jsonAction(photosAPI, "read", false),
			transport.ActionCreate: jsonAction(photosAPI, "create", false),
			transport.ActionUpdate: jsonAction(photosAPI, "update", true),
			transport.ActionDelete: jsonAction(photosAPI, "delete", true),
		},
	}
}

func community() Descriptor {
	multipart := transport.Endpoint{
		Method:   http.MethodPost,
		Path:     sliderAPI,
		Encoding: transport.EncodingMultipart,
	}
	update := multipart
	update.IDField = "id"

	return Descriptor{
		Sync: synchronizer.Config{
			Name:  "community",
			Title: "Community sliders",
			Schema: records.Schema{
				Fields: []records.Field{
					{Name: "title", Aliases: []string{"title"}},
					{Name: "sub_title", Aliases: []string{"sub_title", "subtitle"}},
					{Name: "community", Aliases: []string{"community"}},
					{Name: "description", Aliases: []string{"description"}},
				},
				Media:   []string{"image_url", "image"},
				Visible: []string{appearance},
			},
			Required:  []string{"title"},
			ListKey:   "data",
			Reconcile: synchronizer.ReconcileReload,
			Wire: synchronizer.Wire{
				Visible:       appearance,
				File:          "file",
				ExistingMedia: "existing_image",
			},
		},
		Endpoints: map[transport.Action]transport.Endpoint{
			transport.ActionList:   {Method: http.MethodGet, Path: sliderAPI},
			transport.ActionCreate: multipart,
			transport.ActionUpdate: update,
			transport.ActionDelete: {
				Method:   http.MethodPost,
				Path:     sliderAPI,
				IDField:  "delete_id",
				Encoding: transport.EncodingForm,
			},
		},
	}
}

func jsonAction(path, action string, withID bool) transport.Endpoint {
	ep := transport.Endpoint{
		Method:      http.MethodPost,
		Path:        path,
		Encoding:    transport.EncodingJSON,
		Tunnel:      transport.TunnelActionField,
		TunnelValue: action,
	}
	if withID {
		ep.IDField = "id"
	}
	return ep
}

func methodTunnel(path, method string) transport.Endpoint {
	return transport.Endpoint{
		Method:      http.MethodPost,
		Path:        path,
		IDField:     "id",
		Encoding:    transport.EncodingMultipart,
		Tunnel:      transport.TunnelMethodField,
		TunnelValue: method,
	}
}
