// Package issues files broken-asset reports, new-asset contributions, and
// edit requests on the project's GitHub issue tracker.
//
// NewReport renders a submission into a title, markdown body, and label set.
// NewService returns a GitHub backed Service when issue filing is enabled and
// a noop Service otherwise. After an issue is created the service can also
// fire a repository_dispatch event so automation can investigate the asset;
// a failed dispatch is logged and never fails the submission.
package issues
