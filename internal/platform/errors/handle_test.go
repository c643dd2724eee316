package errors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func localizedMessage(t *testing.T, err error) *errdetails.LocalizedMessage {
	t.Helper()
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected grpc status error, got %T", err)
	}
	for _, detail := range st.Details() {
		if msg, ok := detail.(*errdetails.LocalizedMessage); ok {
			return msg
		}
	}
	t.Fatal("status carries no LocalizedMessage")
	return nil
}

func TestHandleErrorRendersRequestedLocale(t *testing.T) {
	err := HandleError(
		WithMetadata(CodeLeadershipAlreadyClaimed, "claim lost", map[string]string{"DayNumber": "3"}),
		"zh-CN",
	)

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected grpc status error, got %T", err)
	}
	if st.Code() != codes.AlreadyExists {
		t.Fatalf("status code = %v, want AlreadyExists", st.Code())
	}
	msg := localizedMessage(t, err)
	if msg.GetLocale() != "zh-CN" {
		t.Fatalf("locale = %q, want zh-CN", msg.GetLocale())
	}
	if !strings.Contains(msg.GetMessage(), "第 3 天") {
		t.Fatalf("expected rendered day number, got %q", msg.GetMessage())
	}
}

func TestHandleErrorFallsBackToBaseLocale(t *testing.T) {
	err := HandleError(New(CodeNotFound, "no such event"), "pt-BR")

	msg := localizedMessage(t, err)
	if msg.GetLocale() != DefaultLocale {
		t.Fatalf("locale = %q, want %q", msg.GetLocale(), DefaultLocale)
	}
}

func TestHandleErrorHidesNonDomainErrors(t *testing.T) {
	err := HandleError(errors.New("disk on fire"), "en-US")

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected grpc status error, got %T", err)
	}
	if st.Code() != codes.Internal {
		t.Fatalf("status code = %v, want Internal", st.Code())
	}
	if strings.Contains(st.Message(), "disk") {
		t.Fatalf("internal detail leaked: %q", st.Message())
	}
}

func TestHandleErrorNil(t *testing.T) {
	if err := HandleError(nil, "en-US"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestUnaryServerInterceptorLocalizesDomainErrors(t *testing.T) {
	interceptor := UnaryServerInterceptor()
	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs("accept-language", "zh-CN,zh;q=0.9,en;q=0.8"))

	handler := func(context.Context, any) (any, error) {
		return nil, WithMetadata(CodePermissionDenied, "outside window", map[string]string{"Reason": "outside_window"})
	}
	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{}, handler)

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected grpc status error, got %T", err)
	}
	if st.Code() != codes.PermissionDenied {
		t.Fatalf("status code = %v, want PermissionDenied", st.Code())
	}
	if got := localizedMessage(t, err).GetLocale(); got != "zh-CN" {
		t.Fatalf("locale = %q, want zh-CN", got)
	}
}

func TestUnaryServerInterceptorPassesStatusesThrough(t *testing.T) {
	interceptor := UnaryServerInterceptor()
	original := status.Error(codes.Unauthenticated, "token expired")

	handler := func(context.Context, any) (any, error) {
		return nil, original
	}
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	if err != original {
		t.Fatalf("expected status passthrough, got %v", err)
	}

	okHandler := func(context.Context, any) (any, error) {
		return "ok", nil
	}
	resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{}, okHandler)
	if err != nil || resp != "ok" {
		t.Fatalf("resp = %v err = %v", resp, err)
	}
}

func TestLocaleFromMetadataStripsQualityList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"bare tag", "zh-CN", "zh-CN"},
		{"quality list", "zh-CN,zh;q=0.9,en;q=0.8", "zh-CN"},
		{"quality on first tag", "en-GB;q=0.7", "en-GB"},
		{"padded", "  en-US  ", "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := metadata.NewIncomingContext(context.Background(),
				metadata.Pairs("accept-language", tt.value))
			if got := localeFromMetadata(ctx); got != tt.want {
				t.Fatalf("locale = %q, want %q", got, tt.want)
			}
		})
	}

	if got := localeFromMetadata(context.Background()); got != "" {
		t.Fatalf("expected empty locale without metadata, got %q", got)
	}
}
