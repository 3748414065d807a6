package whatsapp

type SendMessageInput struct {
	PhoneNumber  string
	TemplateName string
	Parameters   []string
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *APIError `json:"error,omitempty"`
}

type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
