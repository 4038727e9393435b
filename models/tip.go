package models

import "net/url"

type TipCategory string

const (
	TipDry   TipCategory = "dry"
	TipStyle TipCategory = "style"
	TipCare  TipCategory = "care"
)

// TipCategories lists the catalogue's categories in display order.
var TipCategories = []TipCategory{TipDry, TipStyle, TipCare}

// Tip is one haircare video in the catalogue.
type Tip struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Category TipCategory `json:"category"`
	VideoURL string      `json:"videoUrl"`
	Source   string      `json:"source"`
}

// youtubeSearch links to a video-only YouTube search for query.
func youtubeSearch(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query) + "&sp=EgIQAQ%3D%3D"
}

var Tips = []Tip{
	{ID: "1", Title: "Blow-dry basics for volume", Category: TipDry, VideoURL: youtubeSearch("men's hair blow dry volume tutorial"), Source: "YouTube"},
	{ID: "2", Title: "How to apply hair essence", Category: TipCare, VideoURL: youtubeSearch("men's hair essence oil how to apply"), Source: "YouTube"},
	{ID: "3", Title: "Wax styling for beginners", Category: TipStyle, VideoURL: youtubeSearch("men's hair wax styling beginner tutorial"), Source: "YouTube"},
	{ID: "4", Title: "A complete scalp care routine", Category: TipCare, VideoURL: youtubeSearch("men's scalp care routine hair loss prevention"), Source: "YouTube"},
	{ID: "5", Title: "Trimming your own fringe", Category: TipStyle, VideoURL: youtubeSearch("men's self fringe trim scissors"), Source: "YouTube"},
	{ID: "6", Title: "Drying to prevent hair loss", Category: TipDry, VideoURL: youtubeSearch("how to dry hair prevent hair loss scalp health"), Source: "YouTube"},
	{ID: "7", Title: "Summer hair care essentials", Category: TipCare, VideoURL: youtubeSearch("men's summer hair care uv damage"), Source: "YouTube"},
	{ID: "8", Title: "Styling a natural perm", Category: TipStyle, VideoURL: youtubeSearch("men's natural perm styling blow dry"), Source: "YouTube"},
	{ID: "9", Title: "Shampooing the right way", Category: TipCare, VideoURL: youtubeSearch("how to shampoo properly scalp cleansing men"), Source: "YouTube"},
}
