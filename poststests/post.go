package poststests

import (
	"strconv"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const postsPath = "/posts"

func postPath(id int) string {
	return postsPath + "/" + strconv.Itoa(id)
}

func postsForUserPath(userID int) string {
	return postsPath + "?userId=" + strconv.Itoa(userID)
}

// PostBody builds the JSON request body for creating or replacing a post. The server is
// expected to assign the ID.
func PostBody(title, body string, userID int) ldvalue.Value {
	return postBodyBuilder(title, body, userID).Build()
}

// PostBodyWithID is like PostBody but also specifies the ID.
func PostBodyWithID(id int, title, body string, userID int) ldvalue.Value {
	return postBodyBuilder(title, body, userID).Set("id", ldvalue.Int(id)).Build()
}

func postBodyBuilder(title, body string, userID int) ldvalue.ObjectBuilder {
	return ldvalue.ObjectBuild().
		Set("title", ldvalue.String(title)).
		Set("body", ldvalue.String(body)).
		Set("userId", ldvalue.Int(userID))
}
