package model

// LichessPuzzleResponse 远端谜题详情接口 /api/puzzle/{id} 的响应结构
type LichessPuzzleResponse struct {
	Puzzle struct {
		ID         string   `json:"id"`
		FEN        string   `json:"fen"`
		Solution   []string `json:"solution"`
		Themes     []string `json:"themes"`
		Rating     int      `json:"rating"`
		Plays      int      `json:"plays"`
		InitialPly int      `json:"initialPly"`
	} `json:"puzzle"`
	Game struct {
		ID   string `json:"id"`
		PGN  string `json:"pgn"`
		Perf string `json:"perf"`
	} `json:"game"`
}
