package err

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorsBucket(t *testing.T) {
	var bucket ErrorsBucket
	require.NoError(t, bucket.ErrorOrNil())

	notFound := errors.New("row 2: not found")
	bucket.Msg = "failed to delete 2 rows"
	bucket.Add(nil)
	bucket.Add(notFound)
	bucket.Add(errors.New("row 3: locked"))

	require.Equal(t, 2, bucket.Len())
	err := bucket.ErrorOrNil()
	require.Error(t, err)
	require.Equal(t, "failed to delete 2 rows\n\trow 2: not found\n\trow 3: locked", err.Error())
	require.ErrorIs(t, err, notFound)
}
