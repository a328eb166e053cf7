package request

import validation "github.com/go-ozzo/ozzo-validation"

type RegisterRequest struct {
	FormData map[string]string `json:"form_data"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FormData, validation.NotNil),
	)
}
