package domain

// Part is one segment of a model request: either text or inline binary data.
// Data holds raw bytes; the model SDKs base64 encode it on the wire.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart creates a text part
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart creates an inline data part tagged with its media type
func InlinePart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// IsInline reports whether the part carries binary data
func (p Part) IsInline() bool {
	return p.Data != nil
}

// ModelRequest is an ordered sequence of parts sent to the model in one call
type ModelRequest struct {
	Parts []Part
}

// ModelResponse is the plain text returned by the model, passed through verbatim
type ModelResponse struct {
	Text string
}

// NewPlantCheckRequest builds the two-part diagnosis request: the image first, then the prompt
func NewPlantCheckRequest(mimeType string, image []byte) ModelRequest {
	if image == nil {
		image = []byte{}
	}
	return ModelRequest{
		Parts: []Part{
			InlinePart(mimeType, image),
			TextPart(PlantCheckPrompt),
		},
	}
}

// NewChatRequest wraps the farmer's message in the chatbot instructions
func NewChatRequest(message string) ModelRequest {
	return ModelRequest{
		Parts: []Part{
			TextPart(ChatPromptPrefix + message),
		},
	}
}
