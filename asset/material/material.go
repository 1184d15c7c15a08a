package material

import (
	"errors"
	"fmt"

	"github.com/Endoctrine/nebula/types"
)

const (
	// Texture index value for materials without a diffuse texture.
	NoTexture int32 = -1

	// Base of the glossy reflection perturbation. The perturbation radius is
	// fuzz^SpecularExponent so large exponents converge to a perfect mirror.
	fuzz float32 = 0.1

	// Scaler applied to the ambient term.
	ambientStrength float32 = 0.1
)

var (
	ErrNegativeColor          = errors.New("material: color components must be non-negative")
	ErrInvalidDissolve        = errors.New("material: dissolve must be in [0, 1]")
	ErrInvalidRefractiveIndex = errors.New("material: refractive index must be >= 1")
	ErrUnknownTexture         = errors.New("material: reference to unknown texture")
)

// A surface material. Materials are plain data records shared read-only by
// all primitives that reference them.
//
// The dissolve factor splits incoming light between the opaque part of the
// surface (diffuse, specular and ambient terms) and the transmissive part.
type Material struct {
	Name string

	Ambient            types.Vec3
	Diffuse            types.Vec3
	Specular           types.Vec3
	Emissive           types.Vec3
	TransmissionFilter types.Vec3

	// Opacity split in [0, 1]; 0 is fully opaque.
	Dissolve float32

	// Glossiness of specular reflections.
	SpecularExponent float32

	// Index of refraction used for transmitted rays.
	RefractiveIndex float32

	// Index into the scene texture list or NoTexture. The texture modulates
	// the diffuse color.
	DiffuseTexture int32
}

// Create a new opaque material with the default parameters.
func New(name string) Material {
	return Material{
		Name:            name,
		Diffuse:         types.Vec3{0.7, 0.7, 0.7},
		RefractiveIndex: 1.0,
		DiffuseTexture:  NoTexture,
	}
}

// Returns true if the diffuse color is modulated by a texture.
func (m *Material) HasTexture() bool {
	return m.DiffuseTexture != NoTexture
}

// The weight for the diffusely scattered ray.
func (m *Material) DiffuseCoefficient() types.Vec3 {
	return m.Diffuse.Mul(0.5 * (1 - m.Dissolve))
}

// The weight for the specularly reflected ray.
func (m *Material) SpecularCoefficient() types.Vec3 {
	return m.Specular.Mul(0.5 * (1 - m.Dissolve))
}

// The weight for the transmitted ray.
func (m *Material) TransmissionCoefficient() types.Vec3 {
	return m.TransmissionFilter.Mul(m.Dissolve)
}

// The self-illumination added at every hit regardless of the remaining
// bounce budget.
func (m *Material) AmbientColor() types.Vec3 {
	return m.Ambient.Mul((1 - m.Dissolve) * ambientStrength)
}

// The light emitted by the surface.
func (m *Material) EmissiveColor() types.Vec3 {
	return m.Emissive
}

// Returns true if the material emits light.
func (m *Material) IsEmissive() bool {
	return m.Emissive.MaxComponent() > 0
}

// Check material parameters. The textureCount argument is the number of
// textures available to the scene.
func (m *Material) Validate(textureCount int) error {
	colors := []struct {
		name  string
		color types.Vec3
	}{
		{"ambient", m.Ambient},
		{"diffuse", m.Diffuse},
		{"specular", m.Specular},
		{"emissive", m.Emissive},
		{"transmission filter", m.TransmissionFilter},
	}
	for _, c := range colors {
		if c.color.MinComponent() < 0 {
			return fmt.Errorf("%w: %q %s color is %v", ErrNegativeColor, m.Name, c.name, c.color)
		}
	}

	if m.Dissolve < 0 || m.Dissolve > 1 {
		return fmt.Errorf("%w: %q has dissolve %v", ErrInvalidDissolve, m.Name, m.Dissolve)
	}

	if m.RefractiveIndex < 1 {
		return fmt.Errorf("%w: %q has refractive index %v", ErrInvalidRefractiveIndex, m.Name, m.RefractiveIndex)
	}

	if m.DiffuseTexture != NoTexture && (m.DiffuseTexture < 0 || int(m.DiffuseTexture) >= textureCount) {
		return fmt.Errorf("%w: %q references texture %d (%d available)", ErrUnknownTexture, m.Name, m.DiffuseTexture, textureCount)
	}

	return nil
}
