package alexa

import (
	"context"

	"github.com/Wyydra/voicebridge/internal/core/domain"
)

var (
	capAlexa = NewCapability(CapabilityOptions{})
	capRTC   = NewCapability(CapabilityOptions{
		Interface:     rtcSessionController,
		Configuration: map[string]bool{"isFullDuplexAudioSupported": true},
	})
	capHealth = NewCapability(CapabilityOptions{
		Interface:           "Alexa.EndpointHealth",
		Supported:           []string{"connectivity", "battery"},
		ProactivelyReported: true,
		Retrievable:         true,
	})
	capMotion = NewCapability(CapabilityOptions{
		Interface:           "Alexa.MotionSensor",
		Supported:           []string{"detectionState"},
		ProactivelyReported: true,
	})
	capDoorbell = NewCapability(CapabilityOptions{
		Interface:           "Alexa.DoorbellEventSource",
		ProactivelyReported: true,
	})
)

func capabilitiesFor(d domain.Device) []Capability {
	caps := []Capability{capAlexa, capRTC, capHealth}
	if d.IsDoorbell() {
		caps = append(caps, capMotion, capDoorbell)
	}
	return caps
}

func describe(d domain.Device) string {
	if d.IsDoorbell() {
		return "Video Doorbell"
	}
	return "Smart Camera"
}

// discover lists the user's H.264 cameras. Backend failures drop the
// directive.
func (h *SmartHome) discover(ctx context.Context, d *Directive) *Response {
	var p discoveryPayload
	if err := d.decodePayload(&p); err != nil {
		return NewErrorResponse(ResponseOptions{}, ErrInvalidDirective, "malformed Discover payload")
	}
	token, err := domain.ParseAccessToken(p.Scope.Token)
	if err != nil {
		logFailure(ctx, err, "Discover")
		return nil
	}

	inv, err := h.cameras.LinkedCameras(ctx, token, domain.PlatformAlexa)
	if err != nil {
		logFailure(ctx, err, "Discover")
		return nil
	}

	r := NewResponse(ResponseOptions{
		Namespace: "Alexa.Discovery",
		Name:      "Discover.Response",
	})
	for _, dev := range inv.Devices {
		manufacturer := inv.Manufacturer(dev)
		r.AddEndpoint(DiscoveredEndpoint{
			EndpointID:        dev.SerialNumber,
			ManufacturerName:  manufacturer,
			FriendlyName:      dev.DeviceName,
			Description:       describe(dev),
			DisplayCategories: []string{"CAMERA", dev.Model()},
			Capabilities:      capabilitiesFor(dev),
			AdditionalAttributes: &AdditionalAttributes{
				Manufacturer:     manufacturer,
				EndpointID:       dev.SerialNumber,
				Model:            dev.Model(),
				SerialNumber:     dev.SerialNumber,
				FirmwareVersion:  dev.NewestFirmwareID,
				SoftwareVersion:  dev.DisplayGitSha,
				CustomIdentifier: dev.MacAddress,
			},
		})
	}
	return r
}
