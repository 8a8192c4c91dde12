package domain

// Rotation is a pan/tilt step; positive pitch tilts up, positive yaw pans right.
type Rotation struct {
	Pitch float64
	Yaw   float64
}

const rotationStep = 0.1

// RotationFor maps APL button arguments ("up", "down", "left", "right") to a step.
func RotationFor(args []string) Rotation {
	var r Rotation
	for _, a := range args {
		switch a {
		case "up":
			r.Pitch = rotationStep
		case "down":
			r.Pitch = -rotationStep
		case "left":
			r.Yaw = -rotationStep
		case "right":
			r.Yaw = rotationStep
		}
	}
	return r
}

// Inventory is the set of cameras a user linked to one platform.
type Inventory struct {
	TenantName string
	Devices    []Device
}

// Manufacturer falls back to the device name when the tenant is unknown.
func (i Inventory) Manufacturer(d Device) string {
	if i.TenantName != "" {
		return i.TenantName
	}
	return d.DeviceName
}
