package food

import "fmt"

func buildKeywordPrompt(location, query string) string {
	return fmt.Sprintf(`You normalize verbose Korean restaurant requests into short keyword-search terms.
Return ONLY the keyword, no explanations, no quotes, one line.

[Region]: "%s"
[Request]: "%s"

Rules:
- Keep the region name first when one is given.
- Reduce the request to the dish or venue type (파스타, 이자카야, 카페, ...).
- When the request names no dish or venue type, use 맛집.

Examples:
- "서울" + "분위기 좋은 파스타집 추천" -> 서울 파스타
- "용산구" + "데이트하기 좋은 이자카야" -> 용산구 이자카야
- "홍대" + "이 근처에 갈만한 맛집있어?" -> 홍대 맛집`, location, query)
}
