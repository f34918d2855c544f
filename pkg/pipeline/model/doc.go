// Package model provides the data structures shared between the pipeline
// package and its options. It describes stages to observers such as the
// measure and drawer options without exposing the stages themselves.
package model
