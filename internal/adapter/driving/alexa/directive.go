package alexa

import "encoding/json"

// Request is a Smart Home skill invocation.
type Request struct {
	Directive *Directive `json:"directive"`
}

type Directive struct {
	Header   Header          `json:"header"`
	Endpoint *Endpoint       `json:"endpoint,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type grantPayload struct {
	Grant struct {
		Type string `json:"type"`
		Code string `json:"code"`
	} `json:"grant"`
	Grantee Scope `json:"grantee"`
}

type discoveryPayload struct {
	Scope Scope `json:"scope"`
}

type offer struct {
	Format string `json:"format"`
	Value  string `json:"value"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
	Offer     *offer `json:"offer,omitempty"`
}

type answerPayload struct {
	Answer offer `json:"answer"`
}

type sessionIDPayload struct {
	SessionID string `json:"sessionId"`
}

func (d *Directive) decodePayload(v any) error {
	if len(d.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(d.Payload, v)
}

func (d *Directive) endpointID() string {
	if d.Endpoint == nil {
		return ""
	}
	return d.Endpoint.EndpointID
}

func (d *Directive) endpointToken() string {
	if d.Endpoint == nil {
		return ""
	}
	return d.Endpoint.Scope.Token
}

// reply starts a response scoped to the directive's endpoint.
func (d *Directive) reply(namespace, name string, payload any) *Response {
	return NewResponse(ResponseOptions{
		Namespace:        namespace,
		Name:             name,
		CorrelationToken: d.Header.CorrelationToken,
		Token:            d.endpointToken(),
		EndpointID:       d.endpointID(),
		Payload:          payload,
	})
}

func (d *Directive) replyError(errType, message string) *Response {
	return NewErrorResponse(ResponseOptions{
		CorrelationToken: d.Header.CorrelationToken,
		Token:            d.endpointToken(),
		EndpointID:       d.endpointID(),
	}, errType, message)
}
