package poststests

import (
	"net/http"

	"github.com/stretchr/testify/require"
)

func DoPostTests(t *T) {
	t.Run("create post", func(t *T) {
		p := t.Params()
		resp := t.SendJSON(http.MethodPost, postsPath, PostBody(p.Title, p.Body, p.UserID))
		t.RequireSuccessStatus(resp)

		created := t.RequireDataObject(resp)
		idValue := created.Get("id")
		require.True(t, idValue.Exists(), "response did not include the generated id: %s", resp)
		addedID := int(idValue.Int())
		t.Debug("server assigned id %d", addedID)

		readBack := t.Get(postPath(addedID))
		t.RequireStatus(readBack, 200)
		post := t.RequireDataObject(readBack)
		t.AssertJSONField(post, "id", addedID)
		t.AssertJSONField(post, "title", p.Title)
		t.AssertJSONField(post, "body", p.Body)
		t.AssertJSONField(post, "userId", p.UserID)
	})

	t.Run("create post with id already in use", func(t *T) {
		p := t.Params()
		resp := t.SendJSON(http.MethodPost, postsPath, PostBodyWithID(p.PostID, p.Title, p.Body, p.UserID))
		t.RequireStatus(resp, 500)
	})
}
