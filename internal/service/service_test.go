package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plaza/internal/domain"
	"plaza/internal/domain/models"
	"plaza/internal/domain/repositories"
	"plaza/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func textDoc(text string) json.RawMessage {
	doc := map[string]interface{}{
		"root": map[string]interface{}{
			"type": "root",
			"children": []interface{}{
				map[string]interface{}{
					"type": "paragraph",
					"children": []interface{}{
						map[string]interface{}{"type": "text", "text": text},
					},
				},
			},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

// fakePostRepo is an in-memory PostRepository.
type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) error {
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok || post.DeletedAt != nil {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	clone := *post
	return &clone, nil
}

func (r *fakePostRepo) Update(_ context.Context, post *models.Post) error {
	stored, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("post %s: %w", post.ID, domain.ErrNotFound)
	}
	stored.Content = post.Content
	return nil
}

func (r *fakePostRepo) SoftDelete(_ context.Context, id, actorID string) error {
	post, ok := r.posts[id]
	if !ok || post.AuthorID != actorID {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) ListFeed(_ context.Context, _ string, limit int) ([]models.Post, string, error) {
	var posts []models.Post
	for _, p := range r.posts {
		posts = append(posts, *p)
		if len(posts) == limit {
			break
		}
	}
	return posts, "", nil
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID string, _ int) ([]models.Post, error) {
	var posts []models.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) AdjustCommentCount(_ context.Context, id string, delta int) error {
	post, ok := r.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	post.CommentCount += delta
	return nil
}

func (r *fakePostRepo) AdjustLikeCount(_ context.Context, id string, delta int) error {
	post, ok := r.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	post.LikeCount += delta
	return nil
}

// fakeCommentRepo is an in-memory CommentRepository.
type fakeCommentRepo struct {
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*models.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	clone := *comment
	return &clone, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *models.Comment) error {
	stored, ok := r.comments[comment.ID]
	if !ok {
		return fmt.Errorf("comment %s: %w", comment.ID, domain.ErrNotFound)
	}
	stored.Content = comment.Content
	return nil
}

func (r *fakeCommentRepo) SoftDelete(_ context.Context, id, actorID string) error {
	comment, ok := r.comments[id]
	if !ok || comment.AuthorID != actorID {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) AdjustLikeCount(_ context.Context, id string, delta int) error {
	comment, ok := r.comments[id]
	if !ok {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	comment.LikeCount += delta
	return nil
}

// fakeLikeRepo is an in-memory LikeRepository.
type fakeLikeRepo struct {
	likes map[string]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: map[string]bool{}}
}

func likeKey(subjectType models.SubjectType, subjectID, userID string) string {
	return string(subjectType) + "/" + subjectID + "/" + userID
}

func (r *fakeLikeRepo) Insert(_ context.Context, like *models.Like) (bool, error) {
	key := likeKey(like.SubjectType, like.SubjectID, like.UserID)
	if r.likes[key] {
		return false, nil
	}
	r.likes[key] = true
	return true, nil
}

func (r *fakeLikeRepo) Delete(_ context.Context, subjectType models.SubjectType, subjectID, userID string) (bool, error) {
	key := likeKey(subjectType, subjectID, userID)
	if !r.likes[key] {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}

func (r *fakeLikeRepo) Exists(_ context.Context, subjectType models.SubjectType, subjectID, userID string) (bool, error) {
	return r.likes[likeKey(subjectType, subjectID, userID)], nil
}

// fakeNotificationRepo records notification writes.
type fakeNotificationRepo struct {
	created []models.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, _ int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.created {
		if n.RecipientID == recipientID && (!unreadOnly || n.ReadAt == nil) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	for i := range r.created {
		if r.created[i].ID == id && r.created[i].RecipientID == recipientID {
			now := r.created[i].CreatedAt
			r.created[i].ReadAt = &now
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

var (
	alice = models.Actor{ID: "user-alice", DisplayName: "Alice"}
	bob   = models.Actor{ID: "user-bob", DisplayName: "Bob"}
)

func TestCreatePostRunsContentPipeline(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, testLogger())

	post, err := svc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		DocumentTree: textDoc("check out https://example.com today"),
	})
	require.NoError(t, err)

	assert.Equal(t, alice.ID, post.AuthorID)
	assert.Equal(t, "check out https://example.com today", post.Content.PlainText)
	assert.Contains(t, post.Content.RenderedHTML, `<a href="https://example.com"`)
	// The persisted tree carries the detected link, not just the HTML.
	assert.Contains(t, string(post.Content.DocumentTree), `"autolink"`)
}

func TestCreatePostRejectsEmptyContent(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), testLogger())

	tests := []struct {
		name string
		req  services.ComposeRequest
	}{
		{"null tree no images", services.ComposeRequest{DocumentTree: json.RawMessage("null")}},
		{"whitespace only", services.ComposeRequest{DocumentTree: textDoc("   ")}},
		{"no tree no fallback", services.ComposeRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), alice, &tt.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreatePostImageOnlyIsAllowed(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), testLogger())

	post, err := svc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		DocumentTree: json.RawMessage("null"),
		ImageURLs:    []string{"https://files.example/a.jpg"},
	})
	require.NoError(t, err)
	assert.Empty(t, post.Content.PlainText)
	assert.Len(t, post.Content.ImageURLs, 1)
}

func TestCreatePostEnforcesImageQuota(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), testLogger())

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://files.example/%d.jpg", i)
	}

	_, err := svc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		DocumentTree: textDoc("too many"),
		ImageURLs:    urls,
	})
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestCreatePostRejectsOversizeText(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), testLogger())

	_, err := svc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		DocumentTree: textDoc(strings.Repeat("a", 10001)),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreatePostHTMLFallback(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), testLogger())

	post, err := svc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		HTMLFallback: `<p>hello <script>alert(1)</script>world</p>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, post.Content.RenderedHTML, "<script>")
	assert.Contains(t, post.Content.PlainText, "hello")
	assert.Equal(t, "null", string(post.Content.DocumentTree))
}

func TestUpdatePostOnlyByAuthor(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo, testLogger())

	post, err := svc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		DocumentTree: textDoc("original"),
	})
	require.NoError(t, err)

	_, err = svc.UpdatePost(context.Background(), bob, post.ID, &services.ComposeRequest{
		DocumentTree: textDoc("hijacked"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := svc.UpdatePost(context.Background(), alice, post.ID, &services.ComposeRequest{
		DocumentTree: textDoc("edited"),
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content.PlainText)
}

func TestCreateCommentAdjustsCountAndNotifies(t *testing.T) {
	postRepo := newFakePostRepo()
	commentRepo := newFakeCommentRepo()
	notifRepo := &fakeNotificationRepo{}

	postSvc := NewPostService(postRepo, testLogger())
	commentSvc := NewCommentService(commentRepo, postRepo, notifRepo, fakeTxManager{}, testLogger())

	post, err := postSvc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		DocumentTree: textDoc("post body"),
	})
	require.NoError(t, err)

	comment, err := commentSvc.CreateComment(context.Background(), bob, post.ID, nil, &services.ComposeRequest{
		DocumentTree: textDoc("nice post"),
	})
	require.NoError(t, err)

	stored, err := postRepo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CommentCount)

	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, alice.ID, notifRepo.created[0].RecipientID)
	assert.Equal(t, models.NotificationComment, notifRepo.created[0].Kind)

	// Replying to bob's comment notifies bob, not the post author.
	_, err = commentSvc.CreateComment(context.Background(), alice, post.ID, &comment.ID, &services.ComposeRequest{
		DocumentTree: textDoc("thanks"),
	})
	require.NoError(t, err)
	require.Len(t, notifRepo.created, 2)
	assert.Equal(t, bob.ID, notifRepo.created[1].RecipientID)
	assert.Equal(t, models.NotificationReply, notifRepo.created[1].Kind)
}

func TestCreateCommentSelfNotificationSkipped(t *testing.T) {
	postRepo := newFakePostRepo()
	notifRepo := &fakeNotificationRepo{}

	postSvc := NewPostService(postRepo, testLogger())
	commentSvc := NewCommentService(newFakeCommentRepo(), postRepo, notifRepo, fakeTxManager{}, testLogger())

	post, err := postSvc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		DocumentTree: textDoc("talking to myself"),
	})
	require.NoError(t, err)

	_, err = commentSvc.CreateComment(context.Background(), alice, post.ID, nil, &services.ComposeRequest{
		DocumentTree: textDoc("indeed"),
	})
	require.NoError(t, err)
	assert.Empty(t, notifRepo.created)
}

func TestCreateCommentRejectsCrossPostParent(t *testing.T) {
	postRepo := newFakePostRepo()
	commentRepo := newFakeCommentRepo()

	postSvc := NewPostService(postRepo, testLogger())
	commentSvc := NewCommentService(commentRepo, postRepo, &fakeNotificationRepo{}, fakeTxManager{}, testLogger())

	first, err := postSvc.CreatePost(context.Background(), alice, &services.ComposeRequest{DocumentTree: textDoc("one")})
	require.NoError(t, err)
	second, err := postSvc.CreatePost(context.Background(), alice, &services.ComposeRequest{DocumentTree: textDoc("two")})
	require.NoError(t, err)

	comment, err := commentSvc.CreateComment(context.Background(), bob, first.ID, nil, &services.ComposeRequest{
		DocumentTree: textDoc("on the first"),
	})
	require.NoError(t, err)

	_, err = commentSvc.CreateComment(context.Background(), bob, second.ID, &comment.ID, &services.ComposeRequest{
		DocumentTree: textDoc("wrong thread"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLikeIsIdempotent(t *testing.T) {
	postRepo := newFakePostRepo()
	notifRepo := &fakeNotificationRepo{}

	postSvc := NewPostService(postRepo, testLogger())
	likeSvc := NewLikeService(newFakeLikeRepo(), postRepo, newFakeCommentRepo(), notifRepo, fakeTxManager{}, testLogger())

	post, err := postSvc.CreatePost(context.Background(), alice, &services.ComposeRequest{
		DocumentTree: textDoc("like me"),
	})
	require.NoError(t, err)

	liked, err := likeSvc.Like(context.Background(), bob, models.SubjectPost, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// Second like changes nothing.
	liked, err = likeSvc.Like(context.Background(), bob, models.SubjectPost, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	stored, err := postRepo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.LikeCount)
	assert.Len(t, notifRepo.created, 1, "only the first like notifies")

	liked, err = likeSvc.Unlike(context.Background(), bob, models.SubjectPost, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	stored, err = postRepo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LikeCount)
}

func TestLikeUnknownSubject(t *testing.T) {
	likeSvc := NewLikeService(newFakeLikeRepo(), newFakePostRepo(), newFakeCommentRepo(), &fakeNotificationRepo{}, fakeTxManager{}, testLogger())

	_, err := likeSvc.Like(context.Background(), bob, models.SubjectPost, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
