package model

// SearchResult OMDb 搜索结果条目（不落库）
type SearchResult struct {
	IMDbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"` // movie | series | episode
	Poster string `json:"Poster"`
}

// SearchResponse OMDb 搜索接口响应
type SearchResponse struct {
	Search       []SearchResult `json:"Search"`
	TotalResults string         `json:"totalResults"`
	Response     string         `json:"Response"` // "True" / "False"
	Error        string         `json:"Error,omitempty"`
}

// Found 是否有匹配结果
func (r *SearchResponse) Found() bool {
	return r.Response == "True"
}

// Rating 第三方评分
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// MovieDetail OMDb 详情接口响应
type MovieDetail struct {
	IMDbID     string   `json:"imdbID"`
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	Poster     string   `json:"Poster"`
	Ratings    []Rating `json:"Ratings"`
	Metascore  string   `json:"Metascore"`
	IMDbRating string   `json:"imdbRating"`
	IMDbVotes  string   `json:"imdbVotes"`
	Type       string   `json:"Type"`
	Response   string   `json:"Response"`
	Error      string   `json:"Error,omitempty"`
}

// Found 是否查到详情
func (d *MovieDetail) Found() bool {
	return d.Response == "True"
}
