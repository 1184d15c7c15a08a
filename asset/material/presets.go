package material

import "github.com/Endoctrine/nebula/types"

var (
	// A matte white surface with a faint highlight.
	Plaster = Material{
		Name:            "plaster",
		Ambient:         types.Vec3{0.1, 0.1, 0.1},
		Diffuse:         types.Vec3{0.8, 0.8, 0.8},
		Specular:        types.Vec3{0.8, 0.8, 0.8},
		RefractiveIndex: 1.0,
		DiffuseTexture:  NoTexture,
	}

	// A pure white emitter that does not scatter.
	Luminous = Material{
		Name:            "luminous",
		Emissive:        types.Vec3{1, 1, 1},
		RefractiveIndex: 1.0,
		DiffuseTexture:  NoTexture,
	}

	// A near perfect mirror.
	Mirror = Material{
		Name:             "mirror",
		Specular:         types.Vec3{2, 2, 2},
		SpecularExponent: 1000,
		RefractiveIndex:  1.0,
		DiffuseTexture:   NoTexture,
	}

	// Clear glass that mostly transmits light.
	Glass = Material{
		Name:               "glass",
		Specular:           types.Vec3{2, 2, 2},
		TransmissionFilter: types.Vec3{1, 1, 1},
		Dissolve:           0.9,
		SpecularExponent:   1000,
		RefractiveIndex:    1.5,
		DiffuseTexture:     NoTexture,
	}
)

// Lookup a preset material by name.
func Preset(name string) (Material, bool) {
	switch name {
	case Plaster.Name:
		return Plaster, true
	case Luminous.Name:
		return Luminous, true
	case Mirror.Name:
		return Mirror, true
	case Glass.Name:
		return Glass, true
	}
	return Material{}, false
}
