// Package models lists the OpenAI speech models available to an API key.
package models
