package component

import "github.com/itzKiwiSky/KAPLAYware-sub000/asset"

type Shader struct {
	Key      asset.Key
	Uniforms map[string]any
}

var ShaderComponent = NewComponent[Shader]()
