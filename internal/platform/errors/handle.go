package errors

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hongyangchun/QQClub-sub003/internal/platform/errors/i18n"
)

// DefaultLocale is used when the request carries no locale preference.
const DefaultLocale = i18n.BaseLocale

// fromChain returns the first domain error in the chain, or nil.
func fromChain(err error) *Error {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e
		}
		type unwrapper interface{ Unwrap() error }
		u, ok := err.(unwrapper)
		if !ok {
			return nil
		}
		err = u.Unwrap()
	}
	return nil
}

// HandleError converts any error into a gRPC status error. Domain errors
// carry errdetails with their code and metadata plus a user message
// rendered from the locale catalog; everything else becomes an opaque
// internal status so no raw error text leaks to clients.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	domainErr := fromChain(err)
	if domainErr == nil {
		return status.Error(codes.Internal, "internal error")
	}
	catalog := i18n.GetCatalog(locale)
	userMessage := catalog.Format(string(domainErr.Code), domainErr.Metadata)
	return domainErr.ToGRPCStatus(catalog.Locale(), userMessage)
}
