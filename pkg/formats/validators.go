package formats

type CreateFormatPayload struct {
	Label string `json:"label" mod:"trim" validate:"required,max=64"`
}
