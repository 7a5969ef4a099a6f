package component

type Text struct {
	Value string
	Size  float64
	Width float64 // wrap width, 0 = no wrap
}

var TextComponent = NewComponent[Text]()
