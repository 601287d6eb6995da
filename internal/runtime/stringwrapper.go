package runtime

import "unicode/utf16"

// newStringWrapperObject builds a String exotic object (spec.md §3):
// a primitive wrapper whose own integer-indexed properties are
// synthesized read-only views over the string's UTF-16 code units,
// with its own "length" tracking the unit count rather than the
// ordinary property table.
func newStringWrapperObject(ctx *Context, s StringValue) *Object {
	units := utf16.Encode([]rune(s.Value))
	o := NewObject(ctx.StringPrototype)
	o.Kind = ObjectKindStringWrapper
	o.Primitive = s
	o.exotic = &exoticOps{
		GetOwn: func(o *Object, key PropertyKey) (*Descriptor, bool) {
			if !key.IsSymbol() {
				if key.String() == "length" {
					return &Descriptor{Value: NewNumber(float64(len(units)))}, true
				}
				if idx, ok := parseArrayIndex(key.String()); ok && int(idx) < len(units) {
					ch := string(utf16.Decode(units[idx : idx+1]))
					return &Descriptor{Value: NewString(ch), Enumerable: true}, true
				}
			}
			return o.ordinaryGetOwn(key)
		},
		OwnKeys: func(o *Object) []PropertyKey {
			keys := make([]PropertyKey, 0, len(units)+1)
			for i := range units {
				keys = append(keys, StringKey(itoa(i)))
			}
			keys = append(keys, StringKey("length"))
			keys = append(keys, o.ordinaryOwnKeys()...)
			return keys
		},
	}
	return o
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
