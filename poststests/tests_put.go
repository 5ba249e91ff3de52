package poststests

import (
	"net/http"
)

func DoPutTests(t *T) {
	t.Run("update post", func(t *T) {
		p := t.Params()
		resp := t.SendJSON(http.MethodPut, postPath(p.PostID), PostBody(p.UpdatedTitle(), p.UpdatedBody(), p.UserID))
		t.RequireStatus(resp, 200)

		readBack := t.Get(postPath(p.PostID))
		t.RequireStatus(readBack, 200)
		post := t.RequireDataObject(readBack)
		t.AssertJSONField(post, "title", p.UpdatedTitle())
		t.AssertJSONField(post, "body", p.UpdatedBody())
	})

	t.Run("update post that does not exist", func(t *T) {
		p := t.Params()
		resp := t.SendJSON(http.MethodPut, postPath(p.InvalidID), PostBody(p.Title, p.Body, p.UserID))
		t.RequireStatus(resp, 404)
	})
}
