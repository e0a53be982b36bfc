package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/service"
)

var fruitTags = []string{"果汁", "健康", "罐头", "家庭", "果切", "果盘", "低糖", "高纤维", "早餐", "下午茶"}

// Seed 以 actor 身份创建 numPosts 条帖子，每条附带 0~3 条评论。
// 返回成功创建的帖子数量。
func Seed(ctx context.Context, store *service.Store, actor service.Principal, logger *zap.Logger, numPosts int) int {
	var wg sync.WaitGroup
	var created atomic.Int64
	semaphore := make(chan struct{}, 4)

	for i := 0; i < numPosts; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			req := &dto.CreatePostRequest{
				Title:   gofakeit.Sentence(gofakeit.Number(3, 8)),
				Content: gofakeit.Paragraph(1, 3, 12, "\n"),
				Tags:    fakeTags(),
				Images:  fakeImages(),
			}
			r := store.CreatePost(ctx, actor, req)
			if !r.Success {
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, numPosts),
					zap.String("message", r.Message), zap.Error(r.Err()))
				return
			}
			created.Add(1)

			for j := gofakeit.Number(0, 3); j > 0; j-- {
				cr := store.AddComment(ctx, &dto.AddCommentRequest{
					PostID:  r.Data.ID,
					UserID:  actor.UserID(),
					Content: gofakeit.Sentence(gofakeit.Number(4, 12)),
				})
				if !cr.Success {
					logger.Warn("创建评论失败", zap.String("postID", r.Data.ID), zap.String("message", cr.Message))
				}
			}
		}(i)
	}

	wg.Wait()
	return int(created.Load())
}

func fakeTags() []string {
	n := gofakeit.Number(1, 3)
	seen := make(map[string]bool, n)
	tags := make([]string, 0, n)
	for len(tags) < n {
		tag := gofakeit.RandomString(fruitTags)
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

func fakeImages() []string {
	images := make([]string, gofakeit.Number(0, 4))
	for i := range images {
		images[i] = gofakeit.ImageURL(640, 480)
	}
	return images
}
