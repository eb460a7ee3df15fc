package mcpserver

// ContentFormatContract describes the canonical Markdown content format that
// authors and LLM consumers should follow when writing articles and concepts.
const ContentFormatContract = `# Sowilo Content Format Contract

Every Markdown content file in Sowilo MUST follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title        # RECOMMENDED – falls back to the first H1
description: One-line summary      # OPTIONAL – falls back to the first body paragraph
kind: article                      # OPTIONAL – article (default) or concept
category: concurrency              # OPTIONAL – article grouping, used as a search filter
level: beginner                    # OPTIONAL – concept difficulty, used as a search filter
order: 10                          # OPTIONAL – catalog sort position within its kind
tags:                              # OPTIONAL – YAML list; merged with inline #tags
  - goroutines
  - channels
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. **Frontmatter fences**, when present, must be the first thing in the file
   (no leading blank lines). Files without frontmatter are valid: everything
   is derived from the body.
2. **Slug** is the file path without the ` + "`" + `.md` + "`" + ` extension, forward slashes
   (e.g. ` + "`" + `concepts/goroutines` + "`" + `). Slugs are stable identifiers: completions,
   favorites and the gamification ledger reference them.
3. **Kind** is ` + "`" + `article` + "`" + ` or ` + "`" + `concept` + "`" + `. Concepts can be marked completed and
   count toward learning-path progress; articles count when read.
4. **Tags** are lowercase, kebab-case. Inline ` + "`" + `#tag` + "`" + ` tokens in the body are
   merged with frontmatter tags.
5. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
6. **Encoding** is UTF-8 with a trailing newline.

## Learning paths

Path definitions live as YAML files under ` + "`" + `paths/` + "`" + ` in the content directory:

` + "```" + `yaml
id: go-basics
title: Go Basics
level: beginner
estimated_time: 4h
steps:
  - type: article
    slug: posts/why-go
    title: Why Go
  - type: concept
    slug: concepts/goroutines
    title: Goroutines
prerequisites: []
` + "```" + `

Step slugs must reference existing content; a step whose slug does not
resolve stays incomplete until the content appears.
`
