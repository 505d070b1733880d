package environment

import "context"

type ctxKey int

const (
	envKey ctxKey = iota
	versionKey
	buildTimeKey
)

// CtxWithEnv stores the environment in the context.
func CtxWithEnv(ctx context.Context, env Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx returns the environment stored in the context,
// Local when none is set.
func EnvFromCtx(ctx context.Context) Env {
	if env, ok := ctx.Value(envKey).(Env); ok {
		return env
	}
	return Local
}

// CtxWithVersion stores the build version in the context.
func CtxWithVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, versionKey, version)
}

// VersionFromCtx returns the build version stored in the context.
func VersionFromCtx(ctx context.Context) string {
	version, _ := ctx.Value(versionKey).(string)
	return version
}

// CtxWithBuildTime stores the build time in the context.
func CtxWithBuildTime(ctx context.Context, buildTime string) context.Context {
	return context.WithValue(ctx, buildTimeKey, buildTime)
}

// BuildTimeFromCtx returns the build time stored in the context.
func BuildTimeFromCtx(ctx context.Context) string {
	buildTime, _ := ctx.Value(buildTimeKey).(string)
	return buildTime
}
