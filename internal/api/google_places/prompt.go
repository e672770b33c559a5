package googlePlaces

import (
	"fmt"
	"strings"
)

func buildReviewSummaryPrompt(placeName string, reviews []string) string {
	var block strings.Builder
	for i, review := range reviews {
		block.WriteString(fmt.Sprintf("%d. %s\n\n", i+1, review))
	}

	return fmt.Sprintf(`너는 한국 맛집 리뷰를 요약하는 에디터야.
이 식당의 특징을 1~2문장으로 한국어로 요약해줘.

[식당 이름]: %s
[리뷰 모음]: %s`, placeName, block.String())
}
