package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/tracing"
	"github.com/go-chi/jwtauth/v5"
	"github.com/open-policy-agent/opa/rego"
	"go.opentelemetry.io/otel"
)

type userContextKey struct{ name string }

var userCtxKey = &userContextKey{"user"}

var tracer = otel.Tracer("iot-machine-alerts/authz")

type Scope string

const (
	AlertsRead        Scope = "alerts.read"
	AlertsWrite       Scope = "alerts.write"
	AlertsAdmin       Scope = "alerts.admin"
	MetricsWrite      Scope = "metrics.write"
	NotificationsSelf Scope = "notifications.self"
)

type User struct {
	ID   string
	Role string
}

type Authenticator interface {
	// Verify checks the bearer token and rejects requests without a valid one.
	Verify() []func(http.Handler) http.Handler
	RequireAccess(scopes ...Scope) func(http.Handler) http.Handler
}

type impl struct {
	tokens *jwtauth.JWTAuth
	query  rego.PreparedEvalQuery
}

func NewAuthenticator(ctx context.Context, tokens *jwtauth.JWTAuth, policies io.Reader) (Authenticator, error) {
	module, err := io.ReadAll(policies)
	if err != nil {
		return nil, fmt.Errorf("unable to read authz policies: %s", err.Error())
	}

	query, err := rego.New(
		rego.Query("x = data.machinealerts.authz.allow"),
		rego.Module("authz.rego", string(module)),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}

	return &impl{tokens: tokens, query: query}, nil
}

// NewHS256 creates the token verifier used when tokens are signed with a shared secret.
func NewHS256(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

func (a *impl) Verify() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		jwtauth.Verifier(a.tokens),
		jwtauth.Authenticator,
	}
}

func (a *impl) RequireAccess(scopes ...Scope) func(http.Handler) http.Handler {
	requested := make([]string, 0, len(scopes))
	for _, s := range scopes {
		requested = append(requested, string(s))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error

			log := logging.GetFromContext(r.Context())

			ctx, span := tracer.Start(r.Context(), "check-auth")
			defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

			_, claims, err := jwtauth.FromContext(ctx)
			if err != nil {
				log.Info().Err(err).Msg("no valid token in request")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			input := map[string]any{
				"claims": claims,
				"scopes": requested,
			}

			results, err := a.query.Eval(ctx, rego.EvalInput(input))
			if err != nil {
				log.Error().Err(err).Msg("opa eval failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if len(results) == 0 {
				err = errors.New("opa query could not be satisfied")
				log.Error().Err(err).Msg("auth failed")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			binding := results[0].Bindings["x"]

			// a denied request yields a single false
			if allowed, ok := binding.(bool); ok && !allowed {
				err = errors.New("authorization failed")
				log.Warn().Strs("scopes", requested).Msg(err.Error())
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			result, ok := binding.(map[string]any)
			if !ok {
				err = errors.New("unexpected result type")
				log.Error().Err(err).Msg("opa error")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			user := User{}
			user.ID, _ = result["user"].(string)
			user.Role, _ = result["role"].(string)

			if user.ID == "" {
				err = errors.New("bad response from authz policy engine")
				log.Error().Err(err).Msg("opa error")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userCtxKey).(User)
	return user, ok
}
