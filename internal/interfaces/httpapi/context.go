package httpapi

import "context"

type contextKey string

const jobCallerContextKey contextKey = "internal_job_caller"

// jobCaller identifies the verified caller of an internal endpoint, for
// audit logging only.
type jobCaller struct {
	IP      string
	Country string
}

func withJobCaller(ctx context.Context, c jobCaller) context.Context {
	return context.WithValue(ctx, jobCallerContextKey, c)
}

func jobCallerFromContext(ctx context.Context) (jobCaller, bool) {
	c, ok := ctx.Value(jobCallerContextKey).(jobCaller)
	return c, ok
}
