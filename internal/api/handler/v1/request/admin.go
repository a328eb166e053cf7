package request

import validation "github.com/go-ozzo/ozzo-validation"

// LoginRequest takes any string; a blank password simply fails to match.
type LoginRequest struct {
	Password string `json:"password"`
}

type ImportRequest struct {
	Text string `json:"text"`
}

func (req *ImportRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Text, validation.Required),
	)
}
