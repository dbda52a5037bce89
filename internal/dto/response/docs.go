package response

type WelcomeResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type EndpointDoc struct {
	Method       string `json:"method"`
	Path         string `json:"path"`
	RequiresAuth bool   `json:"requiresAuth"`
	Description  string `json:"description"`
}

type DocsConfig struct {
	Factory string `json:"factory"`
	DB      string `json:"db"`
}

type DocsResponse struct {
	Version   string        `json:"version"`
	Endpoints []EndpointDoc `json:"endpoints"`
	Config    DocsConfig    `json:"config"`
}
