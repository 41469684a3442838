package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError содержит ошибки "поле" -> "сообщение" и упорядоченный
// список полных сообщений ("First name can't be blank").
type ValidationError struct {
	Errors   map[string]string
	Messages []string

	ranks []int
}

// Ранги сообщений: в таком порядке они попадают в Messages
const (
	RankPresence = iota
	RankFormat
	RankConditional
	RankCustom
)

// NewValidationError - пустой набор ошибок, который заполняется через Add
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make(map[string]string)}
}

// Add вставляет полное сообщение после всех сообщений с рангом <= rank.
// field может быть пустым для ошибок уровня записи.
func (e *ValidationError) Add(rank int, field, message string) {
	if field != "" {
		if _, seen := e.Errors[field]; seen {
			return
		}
		e.Errors[field] = message
	}
	at := len(e.ranks)
	for i, r := range e.ranks {
		if r > rank {
			at = i
			break
		}
	}
	e.ranks = append(e.ranks, 0)
	copy(e.ranks[at+1:], e.ranks[at:])
	e.ranks[at] = rank

	e.Messages = append(e.Messages, "")
	copy(e.Messages[at+1:], e.Messages[at:])
	e.Messages[at] = message
}

// Empty - ошибок нет
func (e *ValidationError) Empty() bool {
	return len(e.Messages) == 0
}

// Error реализует стандартный интерфейс error.
func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Messages, "; ")
}

// First - первое сообщение, именно его видит клиент
func (e *ValidationError) First() string {
	if len(e.Messages) == 0 {
		return ""
	}
	return e.Messages[0]
}

// Validator - обертка над go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// New создает новый экземпляр Validator с кастомными правилами.
func New() *Validator {
	v := validator.New()

	// Имена полей берутся из json-тега, а для multipart-форм из form-тега
	// вида candidate[first_name] -> first_name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = formFieldName(fld.Tag.Get("form"))
		}
		return name
	})

	registerCustomRules(v)

	return &Validator{validate: v}
}

// Validate выполняет валидацию структуры.
// Если есть ошибки, возвращает *ValidationError: сначала ошибки присутствия,
// затем формата, затем условные, в порядке объявления полей.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	ordered := make([]validator.FieldError, len(validationErrors))
	copy(ordered, validationErrors)
	sort.SliceStable(ordered, func(a, b int) bool {
		return tagRank(ordered[a].Tag()) < tagRank(ordered[b].Tag())
	})

	out := NewValidationError()
	for _, fe := range ordered {
		field := fieldKey(fe)
		if _, seen := out.Errors[field]; seen {
			continue
		}
		msg := v.getErrorMessage(fe)
		out.Add(tagRank(fe.Tag()), field, Humanize(field)+" "+msg)
		out.Errors[field] = msg
	}
	return out
}

// Var проверяет одиночное значение по тегу (например "required,email")
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

func fieldKey(fe validator.FieldError) string {
	name := fe.Field()
	// для dive по срезу Field() возвращает industries[0]
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return name
}

func tagRank(tag string) int {
	switch tag {
	case "required":
		return RankPresence
	case "email":
		return RankFormat
	case "required_if", "required_with":
		return RankConditional
	default:
		return RankCustom
	}
}

// getErrorMessage - текст без имени поля, имя добавляется в Validate.
func (v *Validator) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return "can't be blank"
	case "email":
		return "is invalid"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "eqfield":
		return fmt.Sprintf("doesn't match %s", Humanize(formFieldName(fe.Param())))
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "is-industry":
		return fmt.Sprintf("%v is not a valid industry", fe.Value())
	case "is-experience", "is-education", "is-function", "is-invite-status":
		return "is not included in the list"
	default:
		return fmt.Sprintf("is invalid (failed on '%s' tag)", fe.Tag())
	}
}

// Humanize: "first_name" -> "First name", "PasswordConfirmation" -> "Password confirmation"
func Humanize(field string) string {
	if field == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case r == '_':
			b.WriteByte(' ')
		case r >= 'A' && r <= 'Z' && i > 0:
			b.WriteByte(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ToLower(b.String())
	return strings.ToUpper(s[:1]) + s[1:]
}

// formFieldName: "candidate[industries][]" -> "industries"
func formFieldName(tag string) string {
	tag = strings.SplitN(tag, ",", 2)[0]
	tag = strings.TrimSuffix(tag, "[]")
	if i := strings.LastIndexByte(tag, '['); i >= 0 {
		tag = strings.TrimSuffix(tag[i+1:], "]")
	}
	return tag
}
