package cli

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/httpclient"
)

type requestOptions struct {
	data           []string
	query          []string
	headers        []string
	rejectOnStatus bool
}

func newRequestCommand(root *rootOptions) *cobra.Command {
	opts := &requestOptions{}

	cmd := &cobra.Command{
		Use:   "request [METHOD] PATH",
		Short: "Send a request through the pipeline",
		Long: `Send a request through the pipeline and print the response payload.

PATH is resolved against the base URL of the deployment mode. Fields given
with -d are sent as an application/x-www-form-urlencoded body.

A call answered with 401, 403 or 404, or one that got no reply while
offline, resolves without a payload; a note is printed to stderr. Use
--reject-on-status to fail on those statuses instead.

Examples:
  apiclient request /me
  apiclient request POST /login -d user=ann -d remember=true
  apiclient request GET /search -q term=go -H "Accept-Language: en"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.build(args)
			if err != nil {
				return err
			}
			adjust := func(cfg *AppConfig) {
				if opts.rejectOnStatus {
					cfg.HTTP.RejectOnStatus = true
				}
			}
			return root.withApp(cmd.Context(), adjust, func(app *App) error {
				out := app.Client.Do(cmd.Context(), req)
				return printOutcome(cmd, req, out)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.data, "data", "d", nil, "Form field key=value (repeatable)")
	flags.StringArrayVarP(&opts.query, "query", "q", nil, "Query parameter key=value (repeatable)")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, `Header "Name: value" (repeatable)`)
	flags.BoolVar(&opts.rejectOnStatus, "reject-on-status", false, "Fail on 401/403/404 instead of resolving silently")
	return cmd
}

// build turns the arguments and flags into a Request.
func (o *requestOptions) build(args []string) (httpclient.Request, error) {
	req := httpclient.Request{Method: http.MethodGet, Path: args[len(args)-1]}
	if len(args) == 2 {
		req.Method = strings.ToUpper(args[0])
	}

	if len(o.data) > 0 {
		body, err := parsePairs(o.data)
		if err != nil {
			return req, fmt.Errorf("--data: %w", err)
		}
		req.Body = body
	}
	if len(o.query) > 0 {
		q, err := parsePairs(o.query)
		if err != nil {
			return req, fmt.Errorf("--query: %w", err)
		}
		req.Query = make(map[string]string, len(q))
		for k := range q {
			req.Query[k] = q.Get(k)
		}
	}
	for _, h := range o.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return req, fmt.Errorf("--header: %q is not \"Name: value\"", h)
		}
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}
		req.Headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return req, nil
}

// parsePairs parses key=value items. Repeated keys keep every value.
func parsePairs(items []string) (url.Values, error) {
	values := make(url.Values, len(items))
	for _, item := range items {
		k, v, ok := strings.Cut(item, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%q is not key=value", item)
		}
		values.Add(k, v)
	}
	return values, nil
}

func printOutcome(cmd *cobra.Command, req httpclient.Request, out httpclient.Outcome) error {
	switch out.State {
	case httpclient.StateSucceeded:
		payload := out.Payload
		if len(payload) > 0 && payload[len(payload)-1] != '\n' {
			payload = append(payload, '\n')
		}
		_, err := cmd.OutOrStdout().Write(payload)
		return err
	case httpclient.StateSilentlyResolved:
		offline := errors.Offline()
		reason := fmt.Sprintf("%s: %s", offline.Code, offline.Message)
		if out.StatusCode != 0 {
			reason = fmt.Sprintf("HTTP %d %s", out.StatusCode, http.StatusText(out.StatusCode))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "resolved without payload (%s)\n", reason)
		return nil
	default:
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, appErrorOf(out.Err))
	}
}

// appErrorOf maps a rejection onto the application error catalog. The
// original error stays reachable through Unwrap.
func appErrorOf(err error) *errors.AppError {
	if e, ok := httpclient.AsError(err); ok {
		return e.AppError()
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.Internal(err)
}
