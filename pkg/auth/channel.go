package auth

import (
	"context"
	"encoding/base64"
	"fmt"
)

// AuthorizePrivate authorizes socketID to subscribe to a private channel.
func AuthorizePrivate(ctx context.Context, signer *Signer, key, socketID, channel string) (*Token, error) {
	if err := validateSubscription(socketID, channel); err != nil {
		return nil, err
	}

	sig, err := signer.Sign(ctx, socketID+":"+channel)
	if err != nil {
		return nil, err
	}
	return &Token{Auth: key + ":" + sig}, nil
}

// AuthorizePresence authorizes socketID to join a presence channel as member.
//
// The returned token carries the exact channel data that was signed; it must be
// forwarded to the client unchanged or the subscription will be refused.
func AuthorizePresence(ctx context.Context, signer *Signer, key, socketID, channel string, member *MemberData) (*Token, error) {
	if err := validateSubscription(socketID, channel); err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("%w: presence member data must be provided", ErrInvalidArgument)
	}
	if member.UserID == "" {
		return nil, fmt.Errorf("%w: presence member data must have a user_id", ErrInvalidArgument)
	}

	channelData, err := json.Marshal(member)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to serialize member data: %v", ErrInvalidArgument, err)
	}

	sig, err := signer.Sign(ctx, socketID+":"+channel+":"+string(channelData))
	if err != nil {
		return nil, err
	}
	return &Token{
		Auth:        key + ":" + sig,
		ChannelData: string(channelData),
	}, nil
}

// AuthorizeEncrypted authorizes socketID to subscribe to an end-to-end
// encrypted channel, handing it the channel's shared secret.
func AuthorizeEncrypted(ctx context.Context, signer *Signer, key, socketID, channel string, masterKey []byte) (*Token, error) {
	if len(masterKey) != MasterKeySize {
		return nil, fmt.Errorf("%w: encryption master key must be %d bytes", ErrConfiguration, MasterKeySize)
	}

	token, err := AuthorizePrivate(ctx, signer, key, socketID, channel)
	if err != nil {
		return nil, err
	}
	secret := SharedSecret(channel, masterKey)
	token.SharedSecret = base64.StdEncoding.EncodeToString(secret[:])
	return token, nil
}

// AuthenticateUser signs in the user behind socketID.
func AuthenticateUser(ctx context.Context, signer *Signer, key, socketID string, user *UserData) (*Token, error) {
	if socketID == "" {
		return nil, fmt.Errorf("%w: socket id must be provided", ErrInvalidArgument)
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%w: user data must have an id", ErrInvalidArgument)
	}

	userData, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to serialize user data: %v", ErrInvalidArgument, err)
	}

	sig, err := signer.Sign(ctx, socketID+"::user::"+string(userData))
	if err != nil {
		return nil, err
	}
	return &Token{
		Auth:     key + ":" + sig,
		UserData: string(userData),
	}, nil
}

func validateSubscription(socketID, channel string) error {
	switch {
	case socketID == "":
		return fmt.Errorf("%w: socket id must be provided", ErrInvalidArgument)
	case channel == "":
		return fmt.Errorf("%w: channel must be provided", ErrInvalidArgument)
	}
	return nil
}
