package generator

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestParseContentValidString(t *testing.T) {
	content := `{"posts":[{"platform":"instagram","caption":"Get ready for our Summer Sale!","hashtags":["sale","summer"]},
		{"platform":"linkedin","headline":"Summer Sale","caption":"Our biggest offer of the year."}]}`

	posts, err := ParseContent(content, []string{"instagram", "linkedin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Post{
		{Platform: "instagram", Caption: "Get ready for our Summer Sale!", Hashtags: []string{"sale", "summer"}},
		{Platform: "linkedin", Headline: "Summer Sale", Caption: "Our biggest offer of the year."},
	}
	if !reflect.DeepEqual(posts, want) {
		t.Fatalf("posts = %#v, want %#v", posts, want)
	}
}

func TestParseContentKeepsHashtagsAsReceived(t *testing.T) {
	content := `{"posts":[{"platform":"instagram","caption":"c","hashtags":["#sale","summer","#Summer Sale"]}]}`

	posts, err := ParseContent(content, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"#sale", "summer", "#Summer Sale"}
	if len(posts) != 1 || !reflect.DeepEqual(posts[0].Hashtags, want) {
		t.Fatalf("posts = %#v", posts)
	}
}

func TestParseContentAlreadyDecoded(t *testing.T) {
	cases := map[string]any{
		"map": map[string]any{
			"posts": []any{map[string]any{"platform": "facebook", "caption": "hello"}},
		},
		"struct": Response{Posts: []Post{{Platform: "facebook", Caption: "hello"}}},
		"raw":    json.RawMessage(`{"posts":[{"platform":"facebook","caption":"hello"}]}`),
		"bytes":  []byte(`{"posts":[{"platform":"facebook","caption":"hello"}]}`),
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			posts, err := ParseContent(content, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(posts) != 1 || posts[0].Platform != "facebook" || posts[0].Caption != "hello" {
				t.Fatalf("posts = %#v", posts)
			}
		})
	}
}

func TestParseContentDegradesToEmpty(t *testing.T) {
	cases := []struct {
		name    string
		content any
		wantErr error
	}{
		{"nil", nil, ErrNoContent},
		{"blank", "   ", ErrNoContent},
		{"not json", "Sure! Here are your posts:", nil},
		{"array", `[{"caption":"x"}]`, ErrNotObject},
		{"null", `null`, ErrNotObject},
		{"missing posts", `{"items":[]}`, ErrNoPostsArray},
		{"posts not array", `{"posts":"none"}`, ErrNoPostsArray},
		{"posts null", `{"posts":null}`, ErrNoPostsArray},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			posts, err := ParseContent(tc.content, []string{"instagram"})
			if err == nil {
				t.Fatal("expected an error to log")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if posts == nil || len(posts) != 0 {
				t.Fatalf("posts = %#v, want empty non-nil slice", posts)
			}
		})
	}
}

func TestParseContentEmptyPostsArray(t *testing.T) {
	posts, err := ParseContent(`{"posts":[]}`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Fatalf("posts = %#v", posts)
	}
}

func TestParseContentDropsMalformedItems(t *testing.T) {
	content := `{"posts":[
		"just a string",
		{"platform":"instagram"},
		{"platform":"instagram","caption":"   "},
		{"platform":"instagram","caption":42},
		{"platform":"facebook","caption":"kept","hashtags":["#Sale"," ", 7, "summer"]}
	]}`
	posts, err := ParseContent(content, nil)
	if !errors.Is(err, ErrMalformedPosts) {
		t.Fatalf("err = %v, want ErrMalformedPosts", err)
	}
	want := []Post{{Platform: "facebook", Caption: "kept", Hashtags: []string{"#Sale", " ", "summer"}}}
	if !reflect.DeepEqual(posts, want) {
		t.Fatalf("posts = %#v, want %#v", posts, want)
	}
}

func TestParseContentInfersPlatform(t *testing.T) {
	content := `{"posts":[{"caption":"a"},{"caption":"b"},{"caption":"c"}]}`
	posts, err := ParseContent(content, []string{"instagram", "linkedin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{posts[0].Platform, posts[1].Platform, posts[2].Platform}
	want := []string{"instagram", "linkedin", "instagram"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("platforms = %v, want %v", got, want)
	}

	posts, _ = ParseContent(content, nil)
	if posts[0].Platform != DefaultPlatform {
		t.Fatalf("platform = %q, want %q", posts[0].Platform, DefaultPlatform)
	}
}
