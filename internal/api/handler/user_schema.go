package handler

// Field names mirror what clients already send; validation rules match the
// original public contract (short names rejected, dob must be a calendar
// date, passwords at least 6 characters). The password cap is bcrypt's
// 72-byte input limit; rejecting here keeps over-long passwords out of the
// hasher instead of surfacing its error as a 500.

type registerRequest struct {
	FullName string `json:"fullName" validate:"required,min=2"`
	DOB      string `json:"dob"      validate:"required,datetime=2006-01-02"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
