package component

type Tags struct {
	Set map[string]struct{}
}

func (t *Tags) Has(tag string) bool {
	if t == nil {
		return false
	}
	_, ok := t.Set[tag]
	return ok
}

func (t *Tags) Add(tag string) {
	if t.Set == nil {
		t.Set = make(map[string]struct{})
	}
	t.Set[tag] = struct{}{}
}

func (t *Tags) Remove(tag string) {
	delete(t.Set, tag)
}

var TagsComponent = NewComponent[Tags]()
