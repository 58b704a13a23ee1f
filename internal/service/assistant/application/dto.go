package application

type SummarizeBatchesRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=INOCULATED INCUBATING FRUITING HARVESTED CONTAMINATED DISCARDED"`
	Limit  int    `json:"limit" validate:"gte=0,lte=100"`
}

type SuggestFormulationRequest struct {
	Goal          string `json:"goal" validate:"required,max=500"`
	Species       string `json:"species" validate:"required,max=120"`
	TotalDryGrams int64  `json:"totalDryGrams" validate:"gt=0,lte=1000000"`
}

// DiagnoseRequest 的 Image 在 JSON 中是 base64
type DiagnoseRequest struct {
	Image    []byte `json:"image" validate:"required,max=5242880"`
	MIMEType string `json:"mimeType" validate:"required,oneof=image/jpeg image/png image/webp"`
	Notes    string `json:"notes" validate:"max=1000"`
}

type ChatTurn struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required,max=4000"`
}

type ChatRequest struct {
	History []ChatTurn `json:"history" validate:"max=40,dive"`
	Message string     `json:"message" validate:"required,max=2000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type SpeechRequest struct {
	Text string `json:"text" validate:"required,max=1500"`
}

type ImageRequest struct {
	Prompt string `json:"prompt" validate:"required,max=1000"`
}
