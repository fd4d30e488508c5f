package datagrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailLink(t *testing.T) {
	require.Equal(t, "/users/1", DetailLink("/users/", Record{"id": "1"}))
	require.Equal(t, "/users/a%2Fb", DetailLink("/users", Record{"id": "a/b"}))
	require.Empty(t, DetailLink("", Record{"id": "1"}))
	require.Equal(t, "/users/", DetailLink("/users", nil))
}

func TestDecodeListState(t *testing.T) {
	s, err := DecodeListState("?q=bob&page=2&size=20&sort=name+desc")
	require.NoError(t, err)
	require.Equal(t, ListState{Query: "bob", Page: 2, Size: 20, Sort: "name desc"}, s)

	s, err = DecodeListState("")
	require.NoError(t, err)
	require.Equal(t, ListState{}, s)

	_, err = DecodeListState("sort=a%3Bb")
	require.Error(t, err)
}
