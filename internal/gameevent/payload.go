package gameevent

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// PayloadType returns the object type scripts see for the payload of k. Kinds
// without members have an empty object payload.
func PayloadType(k Kind) cty.Type {
	info, ok := kindInfo[k]
	if !ok || len(info.Members) == 0 {
		return cty.EmptyObject
	}
	attrs := make(map[string]cty.Type, len(info.Members))
	for _, m := range info.Members {
		attrs[m.Name] = m.Type
	}
	return cty.Object(attrs)
}

// EncodePayload converts the payload carried by sig into PayloadType.
func EncodePayload(sig Signal) (cty.Value, error) {
	if sig == nil {
		return cty.NilVal, fmt.Errorf("signal is nil")
	}
	ty := PayloadType(sig.Kind())
	if ty.Equals(cty.EmptyObject) {
		return cty.EmptyObjectVal, nil
	}
	v, err := gocty.ToCtyValue(sig, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("failed to encode %s payload: %w", sig.Kind(), err)
	}
	return v, nil
}

// DecodePayload builds a signal of kind k from a script payload. A null
// payload yields the zero signal; members missing from payload take their
// declared defaults. Kinds without members ignore the payload.
func DecodePayload(k Kind, payload cty.Value) (Signal, error) {
	sig := NewSignal(k)
	if sig == nil {
		return nil, fmt.Errorf("unknown game event kind %s", k)
	}
	info := kindInfo[k]
	if payload.IsNull() || len(info.Members) == 0 {
		return sig, nil
	}
	if !payload.IsWhollyKnown() {
		return nil, fmt.Errorf("%s payload must be known", k)
	}

	optional := make([]string, 0, len(info.Members))
	for _, m := range info.Members {
		optional = append(optional, m.Name)
	}
	ty := cty.ObjectWithOptionalAttrs(PayloadType(k).AttributeTypes(), optional)
	conv, err := convert.Convert(payload, ty)
	if err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", k, err)
	}

	attrs := make(map[string]cty.Value, len(info.Members))
	for _, m := range info.Members {
		v := conv.GetAttr(m.Name)
		if v.IsNull() {
			v = m.Default
		}
		attrs[m.Name] = v
	}
	obj := cty.ObjectVal(attrs)

	switch k {
	case EntityKilled:
		var s EntityKilledSignal
		err = gocty.FromCtyValue(obj, &s)
		sig = s
	case LeftArena:
		var s LeftArenaSignal
		err = gocty.FromCtyValue(obj, &s)
		sig = s
	case CustomEvent:
		var s CustomSignal
		err = gocty.FromCtyValue(obj, &s)
		sig = s
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", k, err)
	}
	return sig, nil
}
