package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	tagNameValidate   = "validate"
	tagValueNested    = "nested"
	tagValueRequired  = "required"
	tagValueIn        = "in"
	tagValueMax       = "max"
	tagValueMin       = "min"
	tagValueLen       = "len"
	tagValueRegexp    = "regexp"
	validatorSplitter = "|"
)

var (
	ErrIncorrectTagValue        = errors.New("incorrect tag value for validating with field value")
	ErrValidateRequired         = errors.New("value is required")
	ErrValidateIncorrectLen     = errors.New("value has incorrect length")
	ErrValidateNotMatchRegexp   = errors.New("does not match regexp")
	ErrValidateNotFoundInList   = errors.New("does not found in list")
	ErrValidateIncorrectNumeric = errors.New("incorrect numeric value")
	ErrIncorrectTag             = errors.New("incorrect tag")
	ErrIncorrectStruct          = errors.New("incorrect struct")
)

type ValidationError struct {
	Field string
	Err   error
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", v.Field, v.Err)
}

func (v ValidationError) Unwrap() error {
	return v.Err
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	sort.Slice(v, func(i, j int) bool {
		if v[i].Field == v[j].Field {
			return v[i].Err.Error() < v[j].Err.Error()
		}
		return v[i].Field < v[j].Field
	})
	b := strings.Builder{}
	for _, validationError := range v {
		b.WriteString(fmt.Sprintf("{name: %s, error: %s}", validationError.Field, validationError.Err.Error()))
	}
	return b.String()
}

// Is lets errors.Is match any of the collected field errors.
func (v ValidationErrors) Is(target error) bool {
	for _, e := range v {
		if errors.Is(e.Err, target) {
			return true
		}
	}
	return false
}

type rule struct {
	name  string
	value string
	re    *regexp.Regexp
	list  []string
}

// Validate checks the exported fields of struct v against their `validate` tags.
// Tag rules are separated by "|": required, len:N, min:N, max:N, regexp:RE,
// in:a,b,c and nested. Field failures are returned as ValidationErrors, broken
// tags as ErrIncorrectTag / ErrIncorrectTagValue.
func Validate(v interface{}) error {
	if v == nil {
		return ErrIncorrectStruct
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return ErrIncorrectStruct
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return ErrIncorrectStruct
	}

	var validationErrors ValidationErrors
	t := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		fieldType := t.Field(i)
		if fieldType.PkgPath != "" {
			continue
		}
		rules, err := parseValidateTag(fieldType.Tag)
		if err != nil {
			return fmt.Errorf("field %s: %w", fieldType.Name, err)
		}
		if len(rules) == 0 {
			continue
		}

		field := rv.Field(i)
		if rules[0].name == tagValueNested {
			err = Validate(field.Interface())
			var vErrors ValidationErrors
			if errors.As(err, &vErrors) {
				validationErrors = append(validationErrors, vErrors...)
				continue
			}
			if err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Slice || field.Kind() == reflect.Array {
			for j := 0; j < field.Len(); j++ {
				validationErrors, err = validateValue(fieldType.Name, field.Index(j), rules, validationErrors)
				if err != nil {
					return err
				}
			}
			continue
		}
		validationErrors, err = validateValue(fieldType.Name, field, rules, validationErrors)
		if err != nil {
			return err
		}
	}

	if len(validationErrors) == 0 {
		return nil
	}
	return validationErrors
}

func validateValue(name string, val reflect.Value, rules []rule, errs ValidationErrors) (ValidationErrors, error) {
	for _, r := range rules {
		ok, err := check(val, r)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		if !ok {
			errs = append(errs, ValidationError{Field: name, Err: ruleError(r.name)})
		}
	}
	return errs, nil
}

func check(val reflect.Value, r rule) (bool, error) {
	switch r.name {
	case tagValueRequired:
		return !val.IsZero(), nil
	case tagValueRegexp:
		if val.Kind() != reflect.String {
			return false, ErrIncorrectTagValue
		}
		s := val.String()
		return len(r.re.FindString(s)) == len(s), nil
	case tagValueLen:
		n, err := strconv.Atoi(r.value)
		if err != nil || val.Kind() != reflect.String {
			return false, ErrIncorrectTagValue
		}
		return len(val.String()) == n, nil
	case tagValueIn:
		s, err := asString(val)
		if err != nil {
			return false, err
		}
		for _, item := range r.list {
			if item == s {
				return true, nil
			}
		}
		return false, nil
	case tagValueMin, tagValueMax:
		cmp, err := compareNumeric(val, r.value)
		if err != nil {
			return false, err
		}
		if r.name == tagValueMin {
			return cmp >= 0, nil
		}
		return cmp <= 0, nil
	default:
		return false, ErrIncorrectTag
	}
}

func ruleError(name string) error {
	switch name {
	case tagValueRequired:
		return ErrValidateRequired
	case tagValueRegexp:
		return ErrValidateNotMatchRegexp
	case tagValueLen:
		return ErrValidateIncorrectLen
	case tagValueIn:
		return ErrValidateNotFoundInList
	default:
		return ErrValidateIncorrectNumeric
	}
}

func parseValidateTag(tag reflect.StructTag) ([]rule, error) {
	val := tag.Get(tagNameValidate)
	if val == "" {
		return nil, nil
	}

	validators := strings.Split(val, validatorSplitter)
	rules := make([]rule, 0, len(validators))
	for _, validator := range validators {
		parts := strings.SplitN(validator, ":", 2)
		if len(parts) == 1 {
			switch parts[0] {
			case tagValueNested:
				// Other validators are ignored for nested structs
				return []rule{{name: tagValueNested}}, nil
			case tagValueRequired:
				rules = append(rules, rule{name: tagValueRequired})
				continue
			default:
				return nil, ErrIncorrectTag
			}
		}

		r := rule{name: parts[0], value: parts[1]}
		switch r.name {
		case tagValueRegexp:
			re, err := regexp.Compile(r.value)
			if err != nil {
				return nil, ErrIncorrectTagValue
			}
			r.re = re
		case tagValueIn:
			r.list = strings.Split(r.value, ",")
		case tagValueLen, tagValueMin, tagValueMax:
		default:
			return nil, ErrIncorrectTag
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func asString(val reflect.Value) (string, error) {
	//exhaustive:ignore
	switch val.Kind() {
	case reflect.String:
		return val.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(val.Int(), 10), nil
	default:
		return "", ErrIncorrectTagValue
	}
}

func compareNumeric(val reflect.Value, bound string) (int, error) {
	//exhaustive:ignore
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b, err := strconv.ParseInt(bound, 0, 64)
		if err != nil {
			return 0, ErrIncorrectTagValue
		}
		return cmpInt64(val.Int(), b), nil
	case reflect.Float32, reflect.Float64:
		b, err := strconv.ParseFloat(bound, 64)
		if err != nil {
			return 0, ErrIncorrectTagValue
		}
		switch f := val.Float(); {
		case f < b:
			return -1, nil
		case f > b:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, ErrIncorrectTagValue
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
