package capture

// FacingMode selects the front or back camera.
type FacingMode string

const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// Constraints are the camera settings a client should request.
type Constraints struct {
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	FacingMode FacingMode `json:"facingMode"`
}

// DefaultConstraints is the selfie camera at 640x480.
func DefaultConstraints() Constraints {
	return Constraints{Width: 640, Height: 480, FacingMode: FacingUser}
}

const defaultCameraMessage = "Could not access webcam."

var cameraMessages = map[string]string{
	"NotAllowedError":  "Camera access denied. Please allow camera permissions and try again.",
	"NotFoundError":    "No camera found. Please connect a camera and try again.",
	"NotReadableError": "Camera is already in use by another application.",
}

// ErrorMessage maps a camera error name to a message for the user.
func ErrorMessage(name string) string {
	if msg, ok := cameraMessages[name]; ok {
		return msg
	}
	return defaultCameraMessage
}
