package alexa

import (
	"strings"
	"time"

	"github.com/Wyydra/voicebridge/internal/core/domain"
)

const (
	payloadVersion = "3"
	invalidValue   = "INVALID"
)

type Header struct {
	Namespace        string `json:"namespace"`
	Name             string `json:"name"`
	MessageID        string `json:"messageId"`
	CorrelationToken string `json:"correlationToken,omitempty"`
	PayloadVersion   string `json:"payloadVersion"`
}

type Scope struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type Endpoint struct {
	Scope      Scope             `json:"scope"`
	EndpointID string            `json:"endpointId"`
	Cookie     map[string]string `json:"cookie,omitempty"`
}

type Event struct {
	Header   Header    `json:"header"`
	Endpoint *Endpoint `json:"endpoint,omitempty"`
	Payload  any       `json:"payload"`
}

type Property struct {
	Namespace                 string `json:"namespace"`
	Name                      string `json:"name"`
	Value                     any    `json:"value"`
	TimeOfSample              string `json:"timeOfSample"`
	UncertaintyInMilliseconds int    `json:"uncertaintyInMilliseconds"`
}

type Context struct {
	Properties []Property `json:"properties"`
}

type Response struct {
	Context *Context `json:"context,omitempty"`
	Event   Event    `json:"event"`
}

// ResponseOptions configures NewResponse. Empty fields get the defaults
// namespace "Alexa", name "Response", a fresh message id, token and endpoint
// id "INVALID" and an empty payload.
type ResponseOptions struct {
	Namespace        string
	Name             string
	MessageID        string
	CorrelationToken string
	Token            string
	EndpointID       string
	Payload          any
}

type ErrorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type DiscoveryPayload struct {
	Endpoints []DiscoveredEndpoint `json:"endpoints"`
}

func NewResponse(o ResponseOptions) *Response {
	h := Header{
		Namespace:        orDefault(o.Namespace, "Alexa"),
		Name:             orDefault(o.Name, "Response"),
		MessageID:        orDefault(o.MessageID, domain.NewMessageID()),
		CorrelationToken: o.CorrelationToken,
		PayloadVersion:   payloadVersion,
	}

	payload := o.Payload
	if payload == nil {
		if h.Name == "Discover.Response" {
			payload = &DiscoveryPayload{Endpoints: []DiscoveredEndpoint{}}
		} else {
			payload = struct{}{}
		}
	}

	r := &Response{
		Event: Event{Header: h, Payload: payload},
	}
	// AcceptGrant and Discover are not endpoint scoped
	if h.Name != "AcceptGrant.Response" && h.Name != "Discover.Response" {
		r.Event.Endpoint = &Endpoint{
			Scope:      Scope{Type: "BearerToken", Token: orDefault(o.Token, invalidValue)},
			EndpointID: orDefault(o.EndpointID, invalidValue),
		}
	}
	return r
}

// NewErrorResponse builds an Alexa.ErrorResponse. Endpoint scoped errors
// carry the caller's token and endpoint.
func NewErrorResponse(o ResponseOptions, errType, message string) *Response {
	o.Namespace = orDefault(o.Namespace, "Alexa")
	o.Name = "ErrorResponse"
	o.Payload = ErrorPayload{Type: errType, Message: message}
	return NewResponse(o)
}

// PropertyOptions defaults to an Alexa.EndpointHealth connectivity OK reading
// sampled now.
type PropertyOptions struct {
	Namespace    string
	Name         string
	Value        any
	TimeOfSample time.Time
	Uncertainty  int
}

type valueOf struct {
	Value string `json:"value"`
}

func (r *Response) AddContextProperty(o PropertyOptions) {
	if r.Context == nil {
		r.Context = &Context{}
	}
	value := o.Value
	if value == nil {
		value = valueOf{Value: string(domain.ConnectivityOK)}
	}
	sampled := o.TimeOfSample
	if sampled.IsZero() {
		sampled = time.Now()
	}
	r.Context.Properties = append(r.Context.Properties, Property{
		Namespace:                 orDefault(o.Namespace, "Alexa.EndpointHealth"),
		Name:                      orDefault(o.Name, "connectivity"),
		Value:                     value,
		TimeOfSample:              sampled.UTC().Format("2006-01-02T15:04:05.000Z"),
		UncertaintyInMilliseconds: o.Uncertainty,
	})
}

// AddEndpoint appends a discovered endpoint to a Discover.Response payload.
func (r *Response) AddEndpoint(e DiscoveredEndpoint) {
	p, ok := r.Event.Payload.(*DiscoveryPayload)
	if !ok {
		p = &DiscoveryPayload{}
		r.Event.Payload = p
	}
	if e.Capabilities == nil {
		e.Capabilities = []Capability{}
	}
	p.Endpoints = append(p.Endpoints, e)
}

type DiscoveredEndpoint struct {
	EndpointID           string                `json:"endpointId"`
	ManufacturerName     string                `json:"manufacturerName"`
	FriendlyName         string                `json:"friendlyName"`
	Description          string                `json:"description"`
	DisplayCategories    []string              `json:"displayCategories"`
	Cookie               map[string]string     `json:"cookie,omitempty"`
	Capabilities         []Capability          `json:"capabilities"`
	AdditionalAttributes *AdditionalAttributes `json:"additionalAttributes,omitempty"`
}

type AdditionalAttributes struct {
	Manufacturer     string `json:"manufacturer,omitempty"`
	EndpointID       string `json:"endpointId,omitempty"`
	Model            string `json:"model,omitempty"`
	SerialNumber     string `json:"serialNumber,omitempty"`
	FirmwareVersion  string `json:"firmwareVersion,omitempty"`
	SoftwareVersion  string `json:"softwareVersion,omitempty"`
	CustomIdentifier string `json:"customIdentifier,omitempty"`
}

type SupportedProperty struct {
	Name string `json:"name"`
}

type CapabilityProperties struct {
	Supported           []SupportedProperty `json:"supported"`
	ProactivelyReported bool                `json:"proactivelyReported"`
	Retrievable         bool                `json:"retrievable"`
}

type Capability struct {
	Type          string                `json:"type"`
	Interface     string                `json:"interface"`
	Version       string                `json:"version"`
	Properties    *CapabilityProperties `json:"properties,omitempty"`
	Configuration any                   `json:"configuration,omitempty"`
	// only set for doorbell interfaces
	ProactivelyReported *bool `json:"proactivelyReported,omitempty"`
}

type CapabilityOptions struct {
	Interface           string
	Supported           []string
	ProactivelyReported bool
	Retrievable         bool
	Configuration       any
}

func NewCapability(o CapabilityOptions) Capability {
	c := Capability{
		Type:          "AlexaInterface",
		Interface:     orDefault(o.Interface, "Alexa"),
		Version:       payloadVersion,
		Configuration: o.Configuration,
	}
	if len(o.Supported) > 0 {
		props := &CapabilityProperties{
			ProactivelyReported: o.ProactivelyReported,
			Retrievable:         o.Retrievable,
		}
		for _, name := range o.Supported {
			props.Supported = append(props.Supported, SupportedProperty{Name: name})
		}
		c.Properties = props
	}
	// DoorbellEventSource wants the flag at the top level
	if strings.Contains(strings.ToLower(c.Interface), "doorbell") {
		reported := o.ProactivelyReported
		c.ProactivelyReported = &reported
	}
	return c
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
