package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"weblog/middleware"
	"weblog/models"
	"weblog/utils"
)

// PostController serves the post listing, post detail and comment
// submission endpoints.
type PostController struct {
	db    *gorm.DB
	cache *utils.Cache
}

// NewPostController creates a PostController. cache may wrap a nil client.
func NewPostController(db *gorm.DB, cache *utils.Cache) *PostController {
	return &PostController{db: db, cache: cache}
}

// cacheEnvelope mirrors the response envelope so cached bytes can be served
// verbatim.
type cacheEnvelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ListPosts returns posts ordered by timestamp with optional tag and title
// filters applied conjunctively, plus the distinct tag values of the entire
// unfiltered post set.
func (p *PostController) ListPosts(ctx *gin.Context) {
	q := models.PostQuery{
		SortBy: param(ctx, "sort_by"),
		Tags:   param(ctx, "tags"),
		Search: param(ctx, "search"),
	}
	if q.SortBy != models.SortDescending {
		q.SortBy = models.SortAscending
	}

	// Search terms are unbounded, so only sort/tag combinations are cached.
	cacheKey := ""
	if q.Search == "" {
		cacheKey = fmt.Sprintf("cache:posts:list:sort=%s:tags=%s", q.SortBy, q.Tags)
		if b, ok := p.cache.GetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	posts, err := models.QueryPosts(p.db, q)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list posts")
		return
	}

	tags, err := models.DistinctTags(p.db)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to collect tags")
		return
	}

	payload := gin.H{"items": posts, "tags": tags}
	if cacheKey != "" {
		p.cache.SetJSON(cacheKey, cacheEnvelope{Code: 0, Message: "success", Data: payload}, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetPost returns one post with its comments and their authors. A missing
// post is an explicit 404.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID := ctx.Param("id")

	if b, ok := p.cache.GetBytes("cache:post:detail:" + postID); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	comments, err := models.CommentsForPost(p.db, post.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load comments")
		return
	}
	post.Comments = comments

	payload := gin.H{"post": post}
	p.cache.SetJSON("cache:post:detail:"+postID, cacheEnvelope{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// CreateComment attaches a comment to a post on behalf of the authenticated
// user. Unauthenticated submissions never reach this handler.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Value string `json:"value" form:"value" binding:"required,max=255"`
	}

	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "comment value is required")
		return
	}

	value := strings.TrimSpace(utils.Sanitize(req.Value))
	if value == "" {
		utils.Error(ctx, http.StatusBadRequest, 40023, "comment value is required")
		return
	}

	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load post")
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{
		Value:  value,
		PostID: post.ID,
		UserID: userID,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to create comment")
		return
	}
	if err := p.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load comment")
		return
	}

	p.cache.InvalidateByPrefix("cache:post:detail:" + postID)

	utils.Created(ctx, "comment submitted", gin.H{"comment": comment})
}

// param reads a request parameter from the query string, falling back to
// the posted form; the listing endpoint accepts both.
func param(ctx *gin.Context, key string) string {
	if v := strings.TrimSpace(ctx.Query(key)); v != "" {
		return v
	}
	return strings.TrimSpace(ctx.PostForm(key))
}

func currentUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
