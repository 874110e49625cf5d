package form

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/ahmadqo/campus-console/internal/model"
)

var (
	pinRegex     = regexp.MustCompile(`^\d{6}$`)
	phoneRegex   = regexp.MustCompile(`^\d{10}$`)
	panRegex     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarRegex = regexp.MustCompile(`^\d{12}$`)
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// custom tags and their messages; {0} is the field label
var customRules = []struct {
	tag  string
	text string
	fn   validator.Func
}{
	{"pin", "{0} must be a 6-digit PIN code", matchString(pinRegex)},
	{"phone", "{0} must be a 10-digit phone number", matchString(phoneRegex)},
	{"pan", "{0} must be a PAN like AAAAA9999A", matchString(panRegex)},
	{"aadhaar", "{0} must be a 12-digit Aadhaar number", matchString(aadhaarRegex)},
	{"email_basic", "{0} must be a valid email address", matchString(emailRegex)},
	{"date_ymd", "{0} must be a date in YYYY-MM-DD format", validDate},
}

// Rule binds a field to its validator tag string, e.g. "required,pin" or
// "omitempty,phone".
type Rule struct {
	Field string
	Label string
	Tags  string
}

// Errors maps field name to a readable message.
type Errors map[string]string

func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Error joins the messages so an Errors value can travel as an error.
func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, m := range e {
		msgs = append(msgs, m)
	}
	return strings.Join(msgs, "; ")
}

// Validator checks a draft against per-field rules before any network call.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	v := validator.New()

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	for _, r := range customRules {
		_ = v.RegisterValidation(r.tag, r.fn)
		_ = trans.Add(r.tag, r.text, true)
	}
	// the defaults say "is a required field"; forms read better with this
	_ = trans.Add("required", "{0} is required", true)

	return &Validator{validate: v, translator: trans}
}

// Validate runs every rule against the draft and returns one message per
// failing field.
func (v *Validator) Validate(draft model.Record, rules []Rule) Errors {
	errs := Errors{}
	for _, rule := range rules {
		if rule.Tags == "" {
			continue
		}
		value := strings.TrimSpace(draft.String(rule.Field))
		if err := v.validate.Var(value, rule.Tags); err != nil {
			errs[rule.Field] = v.message(err, rule)
		}
	}
	return errs
}

// Check validates a single value; used by callers outside the editor.
func (v *Validator) Check(value, label, tags string) error {
	errs := v.Validate(model.Record{"value": value}, []Rule{{Field: "value", Label: label, Tags: tags}})
	if errs.HasErrors() {
		return errors.New(errs["value"])
	}
	return nil
}

func (v *Validator) message(err error, rule Rule) string {
	label := rule.Label
	if label == "" {
		label = rule.Field
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return label + " is invalid"
	}
	fe := verrs[0]
	if msg, terr := v.translator.T(fe.Tag(), label, fe.Param()); terr == nil && msg != "" {
		return msg
	}
	return label + " is invalid"
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func validDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
