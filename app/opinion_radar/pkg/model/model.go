package model

// ItemRef 列表页中的一条条目引用（文章链接或影片 ID）
type ItemRef struct {
	ID    string
	Title string
	URL   string
}

// Item 抓取到的完整条目：一篇文章或一部影片，以及其下的留言原文
type Item struct {
	ID       string
	Title    string
	Content  string // 文章内文，影片没有
	Comments []string
}

// Comment 打分后的单条留言
type Comment struct {
	Text  string
	Score float64
}

// Record 持久化的最小单位：一条留言连同其父条目与本次运行的上下文。
// 只追加，不更新不删除；重复执行同一关键字会产生重复记录。
type Record struct {
	Site          string
	SearchKeyword string
	CaptureDate   string
	VideoID       string // 仅影片来源
	Title         string
	Content       string // 仅看板来源
	Comment       string
	CommentScore  float64
	ItemScore     float64 // 影片整体情感分数（留言均值），仅影片来源
}
