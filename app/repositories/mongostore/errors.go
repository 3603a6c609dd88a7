package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/velocart/app/catalog"
)

// Server error codes with a catalog meaning.
const (
	codeUnauthorized          = 13
	codeAuthenticationFailed  = 18
	codeNoQueryExecutionPlans = 291
)

// classify turns a driver error into a *catalog.Error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var ce *catalog.Error
	switch {
	case errors.As(err, &ce):
		return catalog.Wrap(op, err)
	case errors.Is(err, mongo.ErrNoDocuments):
		return catalog.NotFound(op, "document not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected):
		return catalog.Unavailable(op, err)
	}

	var se mongo.ServerError
	if errors.As(err, &se) {
		switch {
		case se.HasErrorCode(codeUnauthorized), se.HasErrorCode(codeAuthenticationFailed):
			return catalog.Denied(op, err)
		case se.HasErrorCode(codeNoQueryExecutionPlans):
			return &catalog.Error{Kind: catalog.KindConfiguration, Op: op, Msg: "query needs an index that is not provisioned", Err: err}
		}
	}
	return catalog.Wrap(op, err)
}
