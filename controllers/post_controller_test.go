package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weblog/models"
	"weblog/seed"
)

type listingData struct {
	Items []models.Post `json:"items"`
	Tags  []string      `json:"tags"`
}

func titles(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestListPosts(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, seed.Run(db))
	r, _ := newTestApp(db)

	list := func(t *testing.T, path string) listingData {
		t.Helper()
		w, env := doJSON(t, r, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var data listingData
		require.NoError(t, json.Unmarshal(env.Data, &data))
		return data
	}

	t.Run("default order is ascending by timestamp", func(t *testing.T) {
		data := list(t, "/api/v1/posts")
		assert.Equal(t, []string{
			"What is Authorization?",
			"What is Cloud Computing?",
			"What is Authentication?",
			"What is Encryption?",
		}, titles(data.Items))
	})

	t.Run("descending reverses the ascending order", func(t *testing.T) {
		asc := list(t, "/api/v1/posts?sort_by=ascending")
		desc := list(t, "/api/v1/posts?sort_by=descending")
		require.Len(t, desc.Items, len(asc.Items))
		for i := range asc.Items {
			assert.Equal(t, asc.Items[i].ID, desc.Items[len(desc.Items)-1-i].ID)
		}
	})

	t.Run("tag filter returns exactly the matching posts", func(t *testing.T) {
		data := list(t, "/api/v1/posts?tags=security")
		require.Len(t, data.Items, 3)
		for _, p := range data.Items {
			assert.Equal(t, "security", p.Tags)
		}
	})

	t.Run("search is a case-insensitive title substring match", func(t *testing.T) {
		for _, term := range []string{"Authentication", "authentication", "AUTHENTICATION"} {
			data := list(t, "/api/v1/posts?search="+term)
			require.Len(t, data.Items, 1, "term %q", term)
			assert.Equal(t, "What is Authentication?", data.Items[0].Title)
		}
	})

	t.Run("filters compose conjunctively", func(t *testing.T) {
		data := list(t, "/api/v1/posts?sort_by=descending&tags=security&search=what")
		require.Len(t, data.Items, 3)
		assert.Equal(t, []string{
			"What is Encryption?",
			"What is Authentication?",
			"What is Authorization?",
		}, titles(data.Items))

		data = list(t, "/api/v1/posts?tags=technology&search=Authentication")
		assert.Empty(t, data.Items)
	})

	t.Run("tags list always reflects the unfiltered post set", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/posts",
			"/api/v1/posts?tags=technology",
			"/api/v1/posts?search=Encryption",
		} {
			data := list(t, path)
			assert.Equal(t, []string{"security", "technology"}, data.Tags, "path %s", path)
		}
	})
}

func TestGetPost(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, seed.Run(db))
	r, _ := newTestApp(db)

	t.Run("existing post includes comments with authors", func(t *testing.T) {
		var post models.Post
		require.NoError(t, db.Where("title = ?", "What is Authentication?").First(&post).Error)

		w, env := doJSON(t, r, http.MethodGet, "/api/v1/posts/"+itoa(post.ID), nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			Post models.Post `json:"post"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, post.ID, data.Post.ID)
		require.Len(t, data.Post.Comments, 2)
		for _, c := range data.Post.Comments {
			assert.Equal(t, post.ID, c.PostID)
			assert.NotZero(t, c.User.ID)
			assert.NotEmpty(t, c.User.Firstname)
		}
	})

	t.Run("missing post is an explicit 404", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodGet, "/api/v1/posts/9999", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "post not found", env.Message)
	})
}

func TestCreateComment(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, seed.Run(db))
	r, _ := newTestApp(db)

	var post models.Post
	require.NoError(t, db.Where("title = ?", "What is Encryption?").First(&post).Error)

	t.Run("unauthenticated submission is rejected", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/comments", map[string]string{
			"value": "anonymous hot take",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var count int64
		require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	token := loginUser(t, r, "johndoe@email.com", seed.DemoPassword)
	auth := map[string]string{"Authorization": "Bearer " + token}

	t.Run("authenticated submission creates exactly one comment", func(t *testing.T) {
		var user models.User
		require.NoError(t, db.Where("email = ?", "johndoe@email.com").First(&user).Error)

		before := time.Now().Add(-time.Second)
		w, env := doJSON(t, r, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/comments", map[string]string{
			"value": "Great explanation of key exchange",
		}, auth)
		require.Equal(t, http.StatusCreated, w.Code)

		var data struct {
			Comment models.Comment `json:"comment"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, post.ID, data.Comment.PostID)
		assert.Equal(t, user.ID, data.Comment.UserID)
		assert.False(t, data.Comment.Timestamp.Before(before))
		assert.Equal(t, user.ID, data.Comment.User.ID)

		var count int64
		require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("markup is stripped from the comment value", func(t *testing.T) {
		w, env := doJSON(t, r, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/comments", map[string]string{
			"value": `nice <script>alert("x")</script> post`,
		}, auth)
		require.Equal(t, http.StatusCreated, w.Code)

		var data struct {
			Comment models.Comment `json:"comment"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.NotContains(t, data.Comment.Value, "<script>")
		assert.Contains(t, data.Comment.Value, "nice")
	})

	t.Run("empty value is rejected", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/comments", map[string]string{
			"value": "",
		}, auth)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("comment on a missing post is a 404", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/v1/posts/9999/comments", map[string]string{
			"value": "into the void",
		}, auth)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
