package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	ory "github.com/ory/client-go"
	"github.com/samber/oops"

	"waterwise-login/login"
)

// KratosTransport authenticates through an Ory Kratos native login flow: it
// creates a flow and completes it with the password method.
type KratosTransport struct {
	client *ory.APIClient
	logger *slog.Logger
}

// NewKratos returns a transport talking to the Kratos public API at
// publicURL. A nil httpClient uses the SDK default.
func NewKratos(publicURL string, httpClient *http.Client, logger *slog.Logger) *KratosTransport {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{
		{
			URL: publicURL,
		},
	}
	if httpClient != nil {
		conf.HTTPClient = httpClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KratosTransport{
		client: ory.NewAPIClient(conf),
		logger: logger,
	}
}

// Authenticate runs the login flow with the email as identifier.
func (k *KratosTransport) Authenticate(ctx context.Context, creds login.Credentials) (login.Response, error) {
	flow, resp, err := k.client.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return login.Response{}, k.reject(resp, err, "create login flow")
	}

	updateBody := ory.UpdateLoginFlowWithPasswordMethod{
		Method:     "password",
		Identifier: creds.Email,
		Password:   creds.Password,
	}
	loginFlowBody := ory.UpdateLoginFlowWithPasswordMethodAsUpdateLoginFlowBody(&updateBody)

	result, resp, err := k.client.FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.GetId()).
		UpdateLoginFlowBody(loginFlowBody).
		Execute()
	if err != nil {
		return login.Response{}, k.reject(resp, err, "update login flow")
	}

	k.logger.DebugContext(ctx, "kratos login flow completed", "flow_id", flow.GetId(), "session_id", result.Session.Id)
	return login.Response{StatusCode: resp.StatusCode}, nil
}

func (k *KratosTransport) reject(resp *http.Response, err error, operation string) error {
	rej := &login.Rejection{
		Payload: login.ErrorPayload{Kind: login.PayloadAbsent},
	}
	if resp != nil {
		rej.StatusCode = resp.StatusCode
	}

	var genericError *ory.GenericOpenAPIError
	if errors.As(err, &genericError) {
		rej.Payload = kratosPayload(genericError)
		rej.Err = oops.Code("LOGIN_REJECTED").
			With("operation", operation).
			With("status", rej.StatusCode).
			Wrap(err)
		return rej
	}

	rej.Err = oops.Code("LOGIN_TRANSPORT_FAILED").
		With("operation", operation).
		Wrap(err)
	return rej
}

// kratosPayload reads the message Kratos attached to a failed call. A
// returned login flow carries its messages in the UI container; other
// failures use the generic error envelope.
func kratosPayload(apiErr *ory.GenericOpenAPIError) login.ErrorPayload {
	switch m := apiErr.Model().(type) {
	case ory.LoginFlow:
		return flowPayload(&m)
	case *ory.LoginFlow:
		return flowPayload(m)
	case ory.ErrorGeneric:
		return login.MessagePayload(m.Error.GetMessage())
	case *ory.ErrorGeneric:
		return login.MessagePayload(m.Error.GetMessage())
	}
	return DecodeErrorPayload(apiErr.Body())
}

// flowPayload prefers an error-typed UI message, then any UI message, then
// the first message attached to an input node.
func flowPayload(flow *ory.LoginFlow) login.ErrorPayload {
	var first string
	for _, msg := range flow.Ui.Messages {
		if msg.Type == "error" && msg.Text != "" {
			return login.MessagePayload(msg.Text)
		}
		if first == "" {
			first = msg.Text
		}
	}
	if first != "" {
		return login.MessagePayload(first)
	}
	for _, node := range flow.Ui.Nodes {
		for _, msg := range node.Messages {
			if msg.Text != "" {
				return login.MessagePayload(msg.Text)
			}
		}
	}
	return login.ErrorPayload{Kind: login.PayloadUnrecognized}
}
