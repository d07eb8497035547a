package serrors_test

import (
	"errors"
	"fmt"
	"redirectadmin/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWith_MatchesKind(t *testing.T) {
	err := serrors.With(serrors.ErrMissingSetting, "key %q is not set", "tracker_host")

	require.ErrorIs(t, err, serrors.ErrMissingSetting)
	require.NotErrorIs(t, err, serrors.ErrNotFound)
	require.Equal(t, `key "tracker_host" is not set`, err.Error())
}

func TestWrap_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := serrors.Wrap(serrors.ErrUnavailable, cause, "shortener unreachable")

	require.ErrorIs(t, err, serrors.ErrUnavailable)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "shortener unreachable: connection refused", err.Error())
}

func TestWrap_SurvivesFmtWrapping(t *testing.T) {
	inner := serrors.With(serrors.ErrNotFound, "link set not found")
	outer := fmt.Errorf("could not wrap links: %w", inner)

	require.ErrorIs(t, outer, serrors.ErrNotFound)

	var sErr *serrors.Error
	require.ErrorAs(t, outer, &sErr)
	require.Equal(t, serrors.ErrNotFound, sErr.Kind())
}

func TestKindOnly(t *testing.T) {
	err := serrors.KindOnly(serrors.ErrConflict)

	require.ErrorIs(t, err, serrors.ErrConflict)
	require.Equal(t, "CONFLICT", err.Error())
}
