package record

import (
	"fmt"
	"strings"

	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/msgcat"
	"github.com/park285/CheeseRace-KakaoTalk-bot/internal/util"
)

const (
	boardTitleFallback     = "🧀 치즈 레이스 리더보드"
	boardEmptyFallback     = "아직 완주 기록이 없습니다."
	boardTruncatedFallback = "…(생략)"
)

// RenderBoard renders the standing leaderboard message: one section per
// category, every stored player ranked ascending by time. Empty categories
// still get their header plus an explicit empty line. The result is
// truncated to limit runes with a visible marker.
func RenderBoard(st *State, categories []Category, cat *msgcat.Catalog, limit int) string {
	title := cat.RenderOr("board.title", nil, boardTitleFallback)
	empty := cat.RenderOr("board.empty", nil, boardEmptyFallback)

	var sb strings.Builder
	for _, c := range categories {
		sb.WriteString("【")
		sb.WriteString(c.Label())
		sb.WriteString("】\n")
		ranking := st.Ranking(c)
		if len(ranking) == 0 {
			sb.WriteString(empty)
			sb.WriteString("\n")
		} else {
			for i, e := range ranking {
				sb.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, e.Player, FormatMillis(e.TimeMS)))
			}
		}
		sb.WriteString("\n")
	}

	body := strings.TrimRight(sb.String(), "\n")
	text := util.ApplyKakaoSeeMorePadding(body, title)
	marker := cat.RenderOr("board.truncated", nil, boardTruncatedFallback)
	return util.TruncateWithMarker(text, limit, marker)
}
