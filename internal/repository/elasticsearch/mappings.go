package elasticsearch

// Index bodies: every free-text field gets a CJK analysis path (smartcn) as
// the primary analyzer and an English stemming/edge-ngram path as a subfield;
// identifiers and counters are exact-match fields.

const postsIndexBody = `{
  "settings": {
    "analysis": {
      "analyzer": {
        "chinese_analyzer": {
          "type": "custom",
          "tokenizer": "smartcn_tokenizer"
        },
        "english_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": [
            "lowercase",
            "asciifolding",
            "english_stop",
            "english_stemmer",
            "english_possessive_stemmer",
            "edge_ngram_filter"
          ]
        }
      },
      "filter": {
        "edge_ngram_filter": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 15
        },
        "english_stop": {
          "type": "stop",
          "stopwords": "_english_"
        },
        "english_stemmer": {
          "type": "stemmer",
          "language": "english"
        },
        "english_possessive_stemmer": {
          "type": "stemmer",
          "language": "possessive_english"
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "content": {
        "type": "text",
        "analyzer": "chinese_analyzer",
        "search_analyzer": "chinese_analyzer",
        "fields": {
          "english": {
            "type": "text",
            "analyzer": "english_analyzer",
            "search_analyzer": "english_analyzer"
          }
        }
      },
      "userId": { "type": "keyword" },
      "userName": {
        "type": "text",
        "analyzer": "chinese_analyzer",
        "fields": {
          "english": {
            "type": "text",
            "analyzer": "english_analyzer"
          },
          "keyword": { "type": "keyword" }
        }
      },
      "createdAt": { "type": "date" }
    }
  }
}`

const usersIndexBody = `{
  "settings": {
    "analysis": {
      "analyzer": {
        "chinese_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": [
            "lowercase",
            "asciifolding",
            "ngram_filter"
          ],
          "char_filter": [
            "html_strip"
          ]
        },
        "english_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": [
            "lowercase",
            "asciifolding",
            "english_stop",
            "english_stemmer",
            "english_possessive_stemmer",
            "edge_ngram_filter"
          ]
        }
      },
      "filter": {
        "ngram_filter": {
          "type": "ngram",
          "min_gram": 1,
          "max_gram": 2
        },
        "edge_ngram_filter": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 15
        },
        "english_stop": {
          "type": "stop",
          "stopwords": "_english_"
        },
        "english_stemmer": {
          "type": "stemmer",
          "language": "english"
        },
        "english_possessive_stemmer": {
          "type": "stemmer",
          "language": "possessive_english"
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "userName": {
        "type": "text",
        "analyzer": "chinese_analyzer",
        "fields": {
          "english": { "type": "text", "analyzer": "english_analyzer" },
          "keyword": { "type": "keyword" }
        }
      },
      "accountName": {
        "type": "text",
        "analyzer": "chinese_analyzer",
        "fields": {
          "english": { "type": "text", "analyzer": "english_analyzer" },
          "keyword": { "type": "keyword" }
        }
      },
      "bio": {
        "type": "text",
        "analyzer": "chinese_analyzer",
        "fields": {
          "english": { "type": "text", "analyzer": "english_analyzer" }
        }
      },
      "isPublic": { "type": "boolean" },
      "avatarUrl": { "type": "keyword" },
      "followersCount": { "type": "integer" },
      "followingCount": { "type": "integer" },
      "createdAt": { "type": "date" }
    }
  }
}`

// IndexBody returns the settings and mappings for a named index.
func IndexBody(name string) string {
	if name == "users" {
		return usersIndexBody
	}
	return postsIndexBody
}
