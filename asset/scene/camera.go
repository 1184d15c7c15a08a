package scene

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Endoctrine/nebula/types"
	"github.com/chewxy/math32"
)

var ErrInvalidCamera = errors.New("camera: invalid settings")

// Camera settings as specified by the scene description.
type CameraSettings struct {
	Eye  types.Vec3
	Look types.Vec3
	Up   types.Vec3

	// Vertical field of view in degrees.
	FOV float32

	// Distance from the eye to the plane in perfect focus. A zero value
	// selects the distance between Eye and Look.
	FocusDistance float32

	// Thin lens radius; zero yields a pinhole camera.
	LensRadius float32
}

// Get the default camera settings: a pinhole camera at the origin looking
// down the -Z axis.
func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		Eye:  types.Vec3{0, 0, 0},
		Look: types.Vec3{0, 0, -1},
		Up:   types.Vec3{0, 1, 0},
		FOV:  45.0,
	}
}

// Check for degenerate camera settings.
func (s CameraSettings) Validate() error {
	viewDir := s.Eye.Sub(s.Look)
	if viewDir.LenSq() < 1e-12 {
		return fmt.Errorf("%w: eye and look positions coincide at %v", ErrInvalidCamera, s.Eye)
	}

	if s.Up.Cross(viewDir).LenSq() < 1e-12 {
		return fmt.Errorf("%w: up vector %v is parallel to the view direction", ErrInvalidCamera, s.Up)
	}

	if s.FOV <= 0 || s.FOV >= 180 {
		return fmt.Errorf("%w: FOV must be in (0, 180); got %v", ErrInvalidCamera, s.FOV)
	}

	if s.FocusDistance < 0 {
		return fmt.Errorf("%w: negative focus distance %v", ErrInvalidCamera, s.FocusDistance)
	}

	if s.LensRadius < 0 {
		return fmt.Errorf("%w: negative lens radius %v", ErrInvalidCamera, s.LensRadius)
	}

	return nil
}

// A thin lens camera. Once created the camera is never modified and can be
// shared by all tracers.
type Camera struct {
	Origin types.Vec3

	// Camera basis; W points away from the view direction.
	U, V, W types.Vec3

	LowerLeft  types.Vec3
	Horizontal types.Vec3
	Vertical   types.Vec3

	LensRadius float32

	Settings CameraSettings
}

// Create a camera for an image plane with the given aspect ratio (width / height).
func NewCamera(settings CameraSettings, aspect float32) (*Camera, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if aspect <= 0 {
		return nil, fmt.Errorf("%w: aspect ratio must be positive; got %v", ErrInvalidCamera, aspect)
	}

	focus := settings.FocusDistance
	if focus == 0 {
		focus = settings.Eye.Sub(settings.Look).Len()
	}

	theta := settings.FOV * math32.Pi / 180.0
	viewportHeight := 2 * math32.Tan(theta/2) * focus
	viewportWidth := aspect * viewportHeight

	w := settings.Eye.Sub(settings.Look).Normalize()
	u := settings.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Mul(viewportWidth)
	vertical := v.Mul(viewportHeight)

	return &Camera{
		Origin:     settings.Eye,
		U:          u,
		V:          v,
		W:          w,
		Horizontal: horizontal,
		Vertical:   vertical,
		LowerLeft:  settings.Eye.Sub(horizontal.Mul(0.5)).Sub(vertical.Mul(0.5)).Sub(w.Mul(focus)),
		LensRadius: settings.LensRadius,
		Settings:   settings,
	}, nil
}

// Generate a primary ray through image plane coordinates s (left to right) and
// t (bottom to top), both in [0, 1]. All rays through the same point on the
// focal plane converge there regardless of the lens sample.
func (c *Camera) GetRay(rng *rand.Rand, s, t float32) types.Ray {
	target := c.LowerLeft.Add(c.Horizontal.Mul(s)).Add(c.Vertical.Mul(t))
	if c.LensRadius == 0 {
		return types.NewRay(c.Origin, target.Sub(c.Origin))
	}

	rd := types.RandomInUnitDisk(rng).Mul(c.LensRadius)
	offset := c.U.Mul(rd[0]).Add(c.V.Mul(rd[1]))
	origin := c.Origin.Add(offset)
	return types.NewRay(origin, target.Sub(origin))
}
