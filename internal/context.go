package internal

import "context"

type ctxKeyCorrelationId struct{}

type ctxKeyViewId struct{}

func CtxWithCorrelationId(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationId{}, correlationId)
}

func CorrelationIdFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	correlationId, _ := ctx.Value(ctxKeyCorrelationId{}).(string)
	return correlationId
}

func CtxWithViewId(ctx context.Context, viewId string) context.Context {
	return context.WithValue(ctx, ctxKeyViewId{}, viewId)
}

func ViewIdFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	viewId, _ := ctx.Value(ctxKeyViewId{}).(string)
	return viewId
}
