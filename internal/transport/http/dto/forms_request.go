package dto

// FormSubmitRequest carries one form submission. Email identifies the row for
// public forms; authenticated forms ignore it and use the session email.
type FormSubmitRequest struct {
	Email  string            `json:"email" validate:"omitempty,email"`
	Values map[string]string `json:"values" validate:"required"`
}

func (r *FormSubmitRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	return check(r)
}
