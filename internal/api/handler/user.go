package handler

import (
	"encoding/json"
	"net/http"

	"github.com/purva-labs/sahayak-api/internal/api/response"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationMessages turns validator errors into a field -> message map.
func validationMessages(err error) any {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	errors := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		tag := e.Tag()
		switch tag {
		case "required":
			errors[field] = "field is required"
		case "email":
			errors[field] = "invalid email format"
		case "oneof":
			errors[field] = "must be one of: " + e.Param()
		case "gte":
			errors[field] = "must be at least " + e.Param()
		case "lte":
			errors[field] = "must be at most " + e.Param()
		case "max":
			errors[field] = "must be at most " + e.Param() + " characters"
		default:
			errors[field] = "validation failed on " + tag
		}
	}
	return errors
}

// UserHandler handles user registration endpoints
type UserHandler struct {
	users domain.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(users domain.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles teacher profile registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserRegister
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	user := &domain.User{
		UID:          input.UID,
		FullName:     input.FullName,
		Email:        input.Email,
		ProfileImage: input.ProfileImage,
	}
	if err := h.users.Create(r.Context(), input.UID, user); err != nil {
		response.InternalError(w, "failed to register user")
		return
	}

	response.Created(w, map[string]any{
		"status":  "success",
		"user_id": input.UID,
	})
}
