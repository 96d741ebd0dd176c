// Package txn runs multi-document MongoDB transactions.
//
// Run wraps session.WithTransaction, so transient errors (write conflicts
// between concurrent transactions touching the same document) cause the
// whole callback to be retried against a fresh snapshot. If the retries are
// exhausted the caller gets ErrConflict and decides whether to try again.
// Any other error aborts the transaction; nothing is ever partially committed.
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lucasmenke/suggestion-app/internal/app/system/errreport"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

var (
	// ErrConflict means a concurrent write invalidated the transaction and
	// the driver's retry budget ran out. Retryable by the caller.
	ErrConflict = errors.New("transaction aborted by a concurrent write")

	// ErrNotSupported means the deployment cannot run multi-document
	// transactions (standalone server). There is no non-atomic fallback.
	ErrNotSupported = errors.New("multi-document transactions are not supported by this deployment")
)

// Server codes that mean another transaction got in the way.
const (
	writeConflictCode     = 112
	noSuchTransactionCode = 251
)

// Run executes fn inside a transaction on db's client. fn receives a session
// context; every operation that should join the transaction must use it.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	id := uuid.NewString()

	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fmt.Errorf("%w: %v", ErrNotSupported, err)
		}
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority()).
		SetReadPreference(readpref.Primary())

	attempts := 0
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		attempts++
		return nil, fn(sc)
	}, opts)
	if err == nil {
		if attempts > 1 {
			log.Debug("transaction committed after retry",
				zap.String("txn_id", id),
				zap.Int("attempts", attempts))
		}
		return nil
	}

	switch {
	case IsConflict(err):
		log.Warn("transaction aborted by conflict",
			zap.String("txn_id", id),
			zap.Int("attempts", attempts),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case IsNotSupported(err):
		log.Error("transaction not supported", zap.String("txn_id", id), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNotSupported, err)
	default:
		log.Error("transaction aborted",
			zap.String("txn_id", id),
			zap.Int("attempts", attempts),
			zap.Error(err))
		errreport.Capture(err, map[string]string{"txn_id": id})
		return err
	}
}

// IsConflict reports whether err is a write conflict or an aborted
// transaction (NoSuchTransaction). Network errors also carry the
// TransientTransactionError label but are connectivity failures, so they
// never count as conflicts.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConflict) {
		return true
	}
	if mongo.IsNetworkError(err) {
		return false
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(writeConflictCode) || se.HasErrorCode(noSuchTransactionCode)
	}
	return false
}

// IsNotSupported reports whether err indicates the server cannot run
// transactions (standalone mongod, some managed offerings).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotSupported) {
		return true
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // returned when the deployment cannot run transactions
			return true
		}
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "illegal operation") {
		return true
	}
	if strings.Contains(s, "transaction") && (strings.Contains(s, "replica set") || strings.Contains(s, "session")) {
		return true
	}
	return strings.Contains(s, "session") && strings.Contains(s, "not supported")
}
