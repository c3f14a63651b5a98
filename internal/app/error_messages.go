// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// tour-booking handlers, guards and services.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies to describe the outcome of an operation. Keeping them
// in one place ensures consistent wording throughout the API.
package app

// Authentication and authorization.
const (
	MsgNotLoggedIn            = "You are not logged in! Please log in to get access."
	MsgUserNoLongerExists     = "The user belonging to this token does no longer exist."
	MsgPasswordRecentlyChange = "User recently changed password! Please log in again."
	MsgNoPermission           = "You do not have permission to perform this action"
	MsgInvalidToken           = "Invalid token. Please log in again!"
	MsgExpiredToken           = "Your token has expired! Please log in again."
	MsgProvideEmailPassword   = "Please provide email and password!"
	MsgIncorrectEmailPassword = "Incorrect email or password"
	MsgNoUserWithEmail        = "There is no user with email address."
	MsgTokenSentToEmail       = "Token sent to email!"
	MsgErrorSendingEmail      = "There was an error sending the email. Try again later!"
	MsgResetTokenInvalid      = "Token is invalid or has expired"
	MsgCurrentPasswordWrong   = "Your current password is wrong."
	MsgNotForPasswordUpdates  = "This route is not for password updates. Please use /updateMyPassword."
	MsgUseSignup              = "This route is not defined! Please use /signup instead"
)

// Pipeline.
const (
	MsgTooManyRequests  = "Too many requests from this IP, please try again in an hour!"
	MsgBodyTooLarge     = "Request body is larger than 10kb."
	MsgInvalidJSON      = "Invalid JSON was passed"
	MsgInvalidForm      = "Invalid form data was passed"
	MsgRouteNotFoundFmt = "Can't find %s on this server!"
)

// Error normalization.
const (
	MsgInvalidFieldFmt    = "Invalid %s: %s."
	MsgDuplicateFieldFmt  = "Duplicate field value: %s. Please use another value!"
	MsgInvalidInputPrefix = "Invalid input data."
	MsgSomethingWentWrong = "Something went very wrong!"
	MsgTryAgainLater      = "Please try again later."
	TitleSomethingWrong   = "Something went wrong!"
)

// Resources.
const (
	MsgNoDocumentFound  = "No document found with that ID"
	MsgNoTourFound      = "There is no tour with that name."
	MsgLatLngFormat     = "Please provide latitutr and longitude in the format lat,lng."
	MsgInvalidYear      = "Please provide a valid year."
	MsgInvalidSignature = "Webhook signature verification failed."
)
