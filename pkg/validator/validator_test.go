package validator

import (
	"strings"
	"testing"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestValidateStructPasses(t *testing.T) {
	payload := loginPayload{Email: "someone@example.com", Password: "secret"}
	if err := ValidateStruct(&payload); err != nil {
		t.Fatalf("expected validation to pass: %v", err)
	}
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	payload := loginPayload{Email: "not-an-email"}
	err := ValidateStruct(&payload)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	ve, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	fields := map[string]string{}
	for _, failure := range ve {
		fields[failure.Field] = failure.Tag
	}

	if fields["email"] != "email" {
		t.Fatalf("expected email tag failure keyed by json name, got %v", fields)
	}
	if fields["password"] != "required" {
		t.Fatalf("expected password required failure, got %v", fields)
	}
}

func TestValidationErrorsRenderClientMessages(t *testing.T) {
	err := ValidateStruct(&loginPayload{})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	msg := err.Error()
	if !strings.Contains(msg, "email is required") {
		t.Fatalf("expected email requirement in message, got %q", msg)
	}
	if !strings.Contains(msg, "password is required") {
		t.Fatalf("expected password requirement in message, got %q", msg)
	}
}

func TestValidationErrorMessageForUnknownTag(t *testing.T) {
	failure := ValidationError{Field: "deadline", Tag: "datetime", Param: "2006-01-02"}
	if got := failure.Message(); got != "deadline failed validation: datetime=2006-01-02" {
		t.Fatalf("unexpected message: %q", got)
	}
}
