package poststests

func DoDeleteTests(t *T) {
	t.Run("delete post", func(t *T) {
		id := t.Params().DeleteID()
		resp := t.Delete(postPath(id))
		t.RequireStatus(resp, 200)

		readBack := t.Get(postPath(id))
		t.RequireStatus(readBack, 404)
	})

	t.Run("delete post that does not exist", func(t *T) {
		resp := t.Delete(postPath(t.Params().InvalidID))
		t.RequireStatus(resp, 404)
	})
}
