package poststests

import (
	"github.com/stretchr/testify/assert"
)

func DoGetTests(t *T) {
	t.Run("list all posts", func(t *T) {
		resp := t.Get(postsPath)
		t.RequireStatus(resp, 200)

		posts := t.RequireDataArray(resp)
		assert.Len(t, posts, t.Params().ExpectedCount(), "wrong number of posts")
	})

	t.Run("get post by id", func(t *T) {
		id := t.Params().PostID
		resp := t.Get(postPath(id))
		t.RequireStatus(resp, 200)

		post := t.RequireDataObject(resp)
		t.AssertJSONField(post, "id", id)
	})

	t.Run("get post with invalid id", func(t *T) {
		resp := t.Get(postPath(t.Params().InvalidID))
		t.RequireStatus(resp, 404)
	})

	t.Run("filter posts by userId", func(t *T) {
		userID := t.Params().UserID
		resp := t.Get(postsForUserPath(userID))
		t.RequireStatus(resp, 200)

		for i, post := range t.RequireDataArray(resp) {
			if !t.AssertJSONField(post, "userId", userID) {
				t.Debug("post at index %d belongs to the wrong user: %s", i, post.Raw)
			}
		}
	})

	t.Run("filter posts by invalid userId returns empty list", func(t *T) {
		resp := t.Get(postsForUserPath(t.Params().InvalidUserID))
		t.RequireStatus(resp, 200)

		posts := t.RequireDataArray(resp)
		assert.Empty(t, posts, "expected no posts")
	})
}
