package recommendation

import (
	"fmt"
	"strings"

	"github.com/someplace/go-date-course-api/internal/types"
)

func buildCourseSummaryPrompt(spots, foods []types.Place) string {
	var info strings.Builder

	if len(spots) > 0 {
		info.WriteString("=== 추천 명소 ===\n")
		for _, p := range spots {
			info.WriteString(fmt.Sprintf("- %s (카테고리: %s, 위치: %s)\n", p.Name, p.Category, p.Address))
		}
	}

	if len(foods) > 0 {
		info.WriteString("\n=== 추천 맛집 ===\n")
		for _, f := range foods {
			summary := f.ReviewSummary
			if strings.TrimSpace(summary) == "" {
				summary = f.Address
			}
			info.WriteString(fmt.Sprintf("- %s : %s\n", f.Name, summary))
		}
	}

	return fmt.Sprintf(`너는 친절한 데이트 코치야. 아래 장소 목록을 보고 자연스러운 데이트 코스 추천 멘트를 작성해줘.
가게/명소 이름과 특징을 언급하면서 3~4문장 정도로 설레게 말해줘. 하트 이모티콘도 적절히 사용해줘.

[장소 목록]
%s`, info.String())
}

func buildFoodReportPrompt(userQuery string, foods []types.Place) string {
	var context strings.Builder
	for i, p := range foods {
		context.WriteString(fmt.Sprintf("%d. 이름: %s, 카테고리: %s, 주소: %s, 평점: %.1f\n",
			i+1, p.Name, p.Category, p.Address, p.Rating))
	}

	return fmt.Sprintf(`너는 '썸플레이스(Someplace)'의 수다쟁이 맛집 에디터야.

[사용자 요청]
%s

[선정된 맛집 Top 정보]
%s

위 식당들에 대해, 아래 형식으로 재밌는 추천 리포트를 작성해줘.

형식:
💌 썸플레이스 추천 리포트 (Review Pick 5)

1. [식당이름] ([카테고리])
   - 📍 [주소]
   - ⭐ 평점/리뷰 수 한 줄 요약
   - 💡 3~4줄 정도의 추천 코멘트 (맛, 분위기, 가성비, 데이트/모임용도 등)

2. ...

규칙:
- 각 식당당 코멘트는 3~4줄 정도로 적당히.
- 말투는 친근하고 재치있게.`, userQuery, context.String())
}
