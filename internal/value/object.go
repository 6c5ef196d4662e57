package value

import "github.com/zsx/viro-core/internal/core"

// ObjectInstance is the Payload for the Object kind: a reified binding
// context plus the manifest of fields it publishes (spec.md §4.3's
// Context, made visible as a first-class value).
type ObjectInstance struct {
	Ctx      core.Binding
	Manifest ObjectManifest
}

// ObjectManifest describes the fields exposed by an object, in the order
// they were declared.
type ObjectManifest struct {
	Words []string
	Types []Kind // Void = any type accepted for that field
}

func NewObject(ctx core.Binding, words []string, types []Kind) *ObjectInstance {
	if types == nil {
		types = make([]Kind, len(words))
	}
	return &ObjectInstance{Ctx: ctx, Manifest: ObjectManifest{Words: words, Types: types}}
}

func (o *ObjectInstance) String() string {
	if o == nil {
		return "object[]"
	}
	return "object[fields:" + itoa(int64(len(o.Manifest.Words))) + "]"
}

func ObjectVal(obj *ObjectInstance) core.Value {
	return Cell{Kind: Object, Payload: obj}
}

func AsObject(v core.Value) (*ObjectInstance, bool) {
	if v == nil || v.GetType() != Object {
		return nil, false
	}
	o, ok := v.GetPayload().(*ObjectInstance)
	return o, ok
}
