package runtime

import "golang.org/x/text/unicode/norm"

// StringNormalize implements String.prototype.normalize(form), a real
// ECMAScript string operation the distilled spec's coercion-only
// description of strings omits (SPEC_FULL.md §4).
func StringNormalize(ctx *Context, this Value, args []Value) (Value, *Error) {
	s, err := thisStringValue(this, "normalize")
	if err != nil {
		return nil, err
	}
	form := "NFC"
	if len(args) > 0 && args[0] != Undefined {
		if sv, ok := args[0].(StringValue); ok {
			form = sv.Value
		} else {
			return nil, NewTypeError("String.prototype.normalize form must be a string")
		}
	}
	var f norm.Form
	switch form {
	case "NFC":
		f = norm.NFC
	case "NFD":
		f = norm.NFD
	case "NFKC":
		f = norm.NFKC
	case "NFKD":
		f = norm.NFKD
	default:
		return nil, NewRangeError("The normalization form should be one of NFC, NFD, NFKC, NFKD")
	}
	return NewString(f.String(s)), nil
}

func thisStringValue(this Value, method string) (string, *Error) {
	if sv, ok := this.(StringValue); ok {
		return sv.Value, nil
	}
	if o, ok := AsObject(this); ok && o.Kind == ObjectKindStringWrapper {
		if sv, ok := o.Primitive.(StringValue); ok {
			return sv.Value, nil
		}
	}
	return "", NewTypeError("String.prototype.%s called on non-string", method)
}
